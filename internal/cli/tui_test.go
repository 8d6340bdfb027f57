package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/railinfra/pkg/config"
	"github.com/matzehuels/railinfra/pkg/region"
)

func newBrowseModel(t *testing.T) BrowseModel {
	t.Helper()
	ctx := context.Background()
	src, err := openSource(ctx, config.Default(), []string{writeScene(t)})
	if err != nil {
		t.Fatal(err)
	}
	sc := region.NewScanner(src, nil, region.NewStore(), config.Default().PipelineOptions(), nil)
	if err := sc.ScanAll(ctx); err != nil {
		t.Fatal(err)
	}
	return NewBrowseModel(sc)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseNavigation(t *testing.T) {
	m := newBrowseModel(t)
	if got := strings.Join(m.Names, ","); got != "Depot,Yard" {
		t.Fatalf("Names = %s, want Depot,Yard", got)
	}

	next, _ := m.Update(key("down"))
	m = next.(BrowseModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor after down = %d, want 1", m.Cursor)
	}
	next, _ = m.Update(key("down"))
	m = next.(BrowseModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor past the end = %d, want 1", m.Cursor)
	}
	next, _ = m.Update(key("k"))
	m = next.(BrowseModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor after k = %d, want 0", m.Cursor)
	}
}

func TestBrowseRescan(t *testing.T) {
	m := newBrowseModel(t)

	next, cmd := m.Update(key("r"))
	m = next.(BrowseModel)
	if cmd == nil || !m.scanning {
		t.Fatal("r should start a rescan")
	}
	if _, again := m.Update(key("r")); again != nil {
		t.Error("second r while scanning should be ignored")
	}

	msg := cmd()
	done, ok := msg.(scanDoneMsg)
	if !ok || done.err != nil || done.name != "Depot" {
		t.Fatalf("rescan msg = %#v", msg)
	}
	next, _ = m.Update(done)
	m = next.(BrowseModel)
	if m.scanning || m.status != "scanned Depot" {
		t.Errorf("after scan: scanning=%v status=%q", m.scanning, m.status)
	}
}

func TestBrowseView(t *testing.T) {
	m := newBrowseModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 30})
	m = next.(BrowseModel)

	view := m.View()
	for _, want := range []string{"Regions", "Depot", "Yard", "Tracks"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	w, h := m.gridSize()
	if w != 38 || h < 5 {
		t.Errorf("gridSize() = %dx%d", w, h)
	}
}

func TestBrowseQuit(t *testing.T) {
	m := newBrowseModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestStyleGridLine(t *testing.T) {
	line := "..00..1"
	got := styleGridLine(line)
	// Styling may add escape codes but never drops cells.
	plain := stripANSI(got)
	if plain != line {
		t.Errorf("styleGridLine(%q) plain = %q", line, plain)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
