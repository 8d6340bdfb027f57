package text

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/railinfra/pkg/geom"
	"github.com/matzehuels/railinfra/pkg/layout"
	"github.com/matzehuels/railinfra/pkg/marker"
	"github.com/matzehuels/railinfra/pkg/topology"
)

var region = &marker.Region{Name: "test", Width: 256, Height: 256}

func mk(name string, x, y float64, r *marker.Region) marker.Marker {
	return marker.Marker{
		ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Tag:      marker.TagGuide,
		Parts:    1,
		Position: r3.Vec{X: x, Y: y},
		Rotation: geom.Identity,
		Region:   r,
	}
}

func buildLayout(t *testing.T, ms ...marker.Marker) *layout.Layout {
	t.Helper()
	p := topology.NewParams(12, 0.16)
	g, err := topology.Build(ms, topology.Resolve(ms, p, nil))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return layout.Build(g)
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		id   int
		want byte
	}{
		{0, '0'},
		{9, '9'},
		{10, 'a'},
		{35, 'z'},
		{36, 'A'},
		{61, 'Z'},
		{62, '-'},
		{1000, '-'},
		{-1, '-'},
	}
	for _, tt := range tests {
		if got := Glyph(tt.id); got != tt.want {
			t.Errorf("Glyph(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestText(t *testing.T) {
	l := buildLayout(t, mk("A", 0, 0, region), mk("B", 5, 0, region), mk("C", 20, 0, region))
	got := Text(l)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	want := []string{"number of tracks: 2", "track: 0", "  > ", "  > ", "track: 1", "  > "}
	if len(lines) != len(want) {
		t.Fatalf("Text() has %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i, prefix := range want {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
		}
	}
}

func TestTextEmpty(t *testing.T) {
	if got := Text(buildLayout(t)); got != "number of tracks: 0\n" {
		t.Errorf("Text() = %q", got)
	}
}

func TestGrid(t *testing.T) {
	const w, h = DefaultWidth, DefaultHeight

	tests := []struct {
		name  string
		pos   [2]float64
		wantX int
		wantY int
	}{
		{"center", [2]float64{128, 128}, w / 2, h / 2},
		{"origin clamps to bottom row", [2]float64{0, 0}, 0, h - 1},
		{"far corner clamps to right column", [2]float64{256, 256}, w - 1, 0},
		{"outside region", [2]float64{-40, 400}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := buildLayout(t, mk("p", tt.pos[0], tt.pos[1], region))
			got, err := Grid(l, w, h)
			if err != nil {
				t.Fatalf("Grid() error: %v", err)
			}

			rows := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
			if len(rows) != h {
				t.Fatalf("Grid() has %d rows, want %d", len(rows), h)
			}
			for y, row := range rows {
				if len(row) != w {
					t.Fatalf("row %d has width %d, want %d", y, len(row), w)
				}
				for x := range row {
					want := byte('.')
					if x == tt.wantX && y == tt.wantY {
						want = '0'
					}
					if row[x] != want {
						t.Errorf("cell (%d, %d) = %q, want %q", x, y, row[x], want)
					}
				}
			}
		})
	}
}

func TestGridTracks(t *testing.T) {
	l := buildLayout(t, mk("A", 0, 128, region), mk("B", 5, 128, region), mk("C", 200, 128, region))
	got, err := Grid(l, 256, 256)
	if err != nil {
		t.Fatalf("Grid() error: %v", err)
	}
	row := strings.Split(got, "\n")[128]
	if row[0] != '0' || row[5] != '0' || row[200] != '1' {
		t.Errorf("row 128 = %q, want glyphs at 0, 5 and 200", row[:210])
	}
	if strings.Count(got, ".") != 256*256-3 {
		t.Errorf("unexpected number of empty cells")
	}
}

func TestGridErrors(t *testing.T) {
	tests := []struct {
		name    string
		region  *marker.Region
		w, h    int
		wantErr error
	}{
		{"zero width", region, 0, 24, ErrInvalidSize},
		{"negative height", region, 80, -1, ErrInvalidSize},
		{"missing region", nil, 80, 24, ErrInvalidRegion},
		{"flat region", &marker.Region{Name: "flat", Width: 256}, 80, 24, ErrInvalidRegion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := buildLayout(t, mk("p", 1, 1, tt.region))
			if _, err := Grid(l, tt.w, tt.h); !errors.Is(err, tt.wantErr) {
				t.Errorf("Grid() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGridEmptyLayout(t *testing.T) {
	got, err := Grid(buildLayout(t), 3, 2)
	if err != nil {
		t.Fatalf("Grid() error: %v", err)
	}
	if got != "...\n...\n" {
		t.Errorf("Grid() = %q", got)
	}
}

func ExampleGlyph() {
	fmt.Printf("%c %c %c\n", Glyph(0), Glyph(61), Glyph(62))
	// Output: 0 Z -
}
