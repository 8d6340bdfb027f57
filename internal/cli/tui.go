package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/railinfra/pkg/region"
	"github.com/matzehuels/railinfra/pkg/render/text"
)

// List styles
var (
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	gridBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	gridEmptyCell = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowseModel - Interactive region browser
// =============================================================================

// scanDoneMsg reports a finished rescan triggered from the browser.
type scanDoneMsg struct {
	name string
	err  error
}

// BrowseModel is the bubbletea model listing scanned regions and drawing
// the selected one as a character grid.
type BrowseModel struct {
	Scanner *region.Scanner
	Names   []string
	Cursor  int
	Offset  int
	Height  int // visible table rows

	width, height int // terminal size, zero until the first resize
	status        string
	scanning      bool
}

// NewBrowseModel creates a browser over the regions published by sc.
func NewBrowseModel(sc *region.Scanner) BrowseModel {
	return BrowseModel{
		Scanner: sc,
		Names:   sc.Store().Names(),
		Height:  8,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Names)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "r":
			if len(m.Names) == 0 || m.scanning {
				return m, nil
			}
			m.scanning = true
			m.status = "scanning " + m.Names[m.Cursor] + "..."
			return m, m.rescan(m.Names[m.Cursor])
		}
	case scanDoneMsg:
		m.scanning = false
		if msg.err != nil {
			m.status = fmt.Sprintf("scan %s failed: %v", msg.name, msg.err)
		} else {
			m.status = "scanned " + msg.name
		}
		m.Names = m.Scanner.Store().Names()
		if m.Cursor >= len(m.Names) {
			m.Cursor = max(0, len(m.Names)-1)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.Height = min(8, max(3, msg.Height/4))
	}
	return m, nil
}

// rescan scans one region off the UI goroutine.
func (m BrowseModel) rescan(name string) tea.Cmd {
	sc := m.Scanner
	return func() tea.Msg {
		_, err := sc.Scan(context.Background(), name)
		return scanDoneMsg{name: name, err: err}
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Regions"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  r rescan  q quit"))
	b.WriteString("\n\n")

	if len(m.Names) == 0 {
		b.WriteString(StyleWarning.Render("no scanned regions"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.regionTable())
	b.WriteString("\n")

	w, h := m.gridSize()
	if grid, err := m.grid(w, h); err != nil {
		b.WriteString(StyleWarning.Render(err.Error()))
	} else {
		b.WriteString(gridBoxStyle.Render(grid))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(listDimStyle.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m BrowseModel) regionTable() string {
	end := min(m.Offset+m.Height, len(m.Names))
	store := m.Scanner.Store()

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		row := []string{cursor, m.Names[i], "—", "—", "—"}
		if res := store.Load(m.Names[i]); res != nil {
			row[2] = fmt.Sprint(res.Stats.Eligible)
			row[3] = fmt.Sprint(res.Stats.Tracks)
			row[4] = res.Stats.ScannedAt.Format(time.TimeOnly)
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Region", "Markers", "Tracks", "Scanned").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col == 4 {
				base = base.Foreground(colorDim)
			}
			if m.Offset+row == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	return t.Render()
}

// gridSize fits the grid below the table, falling back to the library
// default before the first resize.
func (m BrowseModel) gridSize() (int, int) {
	if m.width == 0 || m.height == 0 {
		return text.DefaultWidth, text.DefaultHeight
	}
	return max(10, m.width-2), max(5, m.height-m.Height-12)
}

// grid renders the selected region with empty cells dimmed.
func (m BrowseModel) grid(w, h int) (string, error) {
	res := m.Scanner.Store().Load(m.Names[m.Cursor])
	if res == nil {
		return "", fmt.Errorf("region %s has no layout", m.Names[m.Cursor])
	}
	raw, err := text.Grid(res.Layout, w, h)
	if err != nil {
		return "", err
	}

	lines := strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
	for i, line := range lines {
		lines[i] = styleGridLine(line)
	}
	return strings.Join(lines, "\n"), nil
}

// styleGridLine dims runs of empty cells and highlights track glyphs.
func styleGridLine(line string) string {
	var b strings.Builder
	start := 0
	for start < len(line) {
		end := start + 1
		empty := line[start] == '.'
		for end < len(line) && (line[end] == '.') == empty {
			end++
		}
		if empty {
			b.WriteString(gridEmptyCell.Render(line[start:end]))
		} else {
			b.WriteString(StyleHighlight.Render(line[start:end]))
		}
		start = end
	}
	return b.String()
}
