package text

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/matzehuels/railinfra/pkg/layout"
)

const (
	// DefaultWidth and DefaultHeight are the grid size used when none is
	// requested.
	DefaultWidth  = 80
	DefaultHeight = 24

	// ConsoleWidth and ConsoleHeight are the grid size of the console
	// "rail show ascii" command.
	ConsoleWidth  = 100
	ConsoleHeight = 200
)

const (
	empty    = '.'
	overflow = '-'
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	// ErrInvalidSize is returned when the requested grid has a non-positive
	// dimension.
	ErrInvalidSize = errors.New("invalid grid size")

	// ErrInvalidRegion is returned when a member's region is missing or has
	// a non-positive extent.
	ErrInvalidRegion = errors.New("invalid region extent")
)

// Glyph returns the character drawn for track id.
func Glyph(id int) byte {
	if id < 0 || id >= len(alphabet) {
		return overflow
	}
	return alphabet[id]
}

// Text returns the track listing of l.
func Text(l *layout.Layout) string {
	var buf bytes.Buffer
	_ = WriteText(&buf, l)
	return buf.String()
}

// WriteText writes the track listing of l to w: a track count, then a
// "track: id" header per track in ascending order followed by one indented
// line per member.
func WriteText(w io.Writer, l *layout.Layout) error {
	g := l.Graph()
	if _, err := fmt.Fprintf(w, "number of tracks: %d\n", l.Len()); err != nil {
		return err
	}
	for _, id := range l.IDs() {
		if _, err := fmt.Fprintf(w, "track: %d\n", id); err != nil {
			return err
		}
		for _, n := range l.Track(id) {
			if _, err := fmt.Fprintf(w, "  > %s\n", g.Describe(n)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Grid projects l onto a w by h character grid and returns the rows, each
// terminated by a newline.
func Grid(l *layout.Layout, w, h int) (string, error) {
	if w <= 0 || h <= 0 {
		return "", fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}

	rows := make([][]byte, h)
	for i := range rows {
		rows[i] = bytes.Repeat([]byte{empty}, w)
	}

	g := l.Graph()
	var fw, fh float64
	scaled := false
	for _, id := range l.IDs() {
		glyph := Glyph(id)
		for _, n := range l.Track(id) {
			m := g.Marker(n)
			if !scaled {
				if m.Region == nil || m.Region.Width <= 0 || m.Region.Height <= 0 {
					return "", fmt.Errorf("%w: marker %s", ErrInvalidRegion, m.ID)
				}
				fw = float64(w) / m.Region.Width
				fh = float64(h) / m.Region.Height
				scaled = true
			}
			x := clamp(int(math.Round(m.Position.X*fw)), w)
			y := clamp(h-int(math.Round(m.Position.Y*fh)), h)
			rows[y][x] = glyph
		}
	}

	var buf bytes.Buffer
	buf.Grow((w + 1) * h)
	for _, row := range rows {
		buf.Write(row)
		buf.WriteByte('\n')
	}
	return buf.String(), nil
}

func clamp(v, n int) int {
	return max(0, min(v, n-1))
}
