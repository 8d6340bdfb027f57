package topology

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/railinfra/pkg/marker"
)

var defaultParams = NewParams(12, 0.16)

func TestNewParams(t *testing.T) {
	p := NewParams(12, 0.16)
	if p.DistanceSquared != 144 {
		t.Errorf("DistanceSquared = %v, want 144", p.DistanceSquared)
	}
	if p.Angle != 0.16 {
		t.Errorf("Angle = %v, want 0.16", p.Angle)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		markers  []marker.Marker
		from     int
		wantCand string
		wantAlt  string
	}{
		{
			name:     "nearest ahead within range",
			markers:  []marker.Marker{guide("a", 0, 0), guide("b", 5, 0), guide("c", 20, 0)},
			from:     0,
			wantCand: "b",
		},
		{
			name:    "out of range",
			markers: []marker.Marker{guide("a", 0, 0), guide("b", 5, 0), guide("c", 20, 0)},
			from:    1,
		},
		{
			name:    "behind",
			markers: []marker.Marker{guide("a", 0, 0), guide("b", -5, 0)},
			from:    0,
		},
		{
			name:    "outside angle",
			markers: []marker.Marker{guide("a", 0, 0), guide("b", 5, 2)},
			from:    0,
		},
		{
			name:     "strictly closer replaces",
			markers:  []marker.Marker{guide("a", 0, 0), guide("far", 9, 0), guide("near", 4, 0)},
			from:     0,
			wantCand: "near",
		},
		{
			name:     "tie keeps first seen",
			markers:  []marker.Marker{guide("a", 0, 0), guide("left", 5, 0.3), guide("right", 5, -0.3)},
			from:     0,
			wantCand: "left",
		},
		{
			name:     "guide sees both kinds",
			markers:  []marker.Marker{guide("a", 0, 0), guide("b", 5, 0.2), alt("c", 6, -0.2)},
			from:     0,
			wantCand: "b",
			wantAlt:  "c",
		},
		{
			name:    "alt guide drops candidate",
			markers: []marker.Marker{alt("a", 0, 0), guide("b", 5, 0.2), alt("c", 6, -0.2)},
			from:    0,
			wantAlt: "c",
		},
		{
			name:     "alt guide keeps lone candidate",
			markers:  []marker.Marker{alt("a", 0, 0), guide("b", 5, 0)},
			from:     0,
			wantCand: "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.markers, defaultParams, nil)
			if len(got) != len(tt.markers) {
				t.Fatalf("Resolve() len = %d, want %d", len(got), len(tt.markers))
			}
			c := got[tt.from]
			if want := idOf(tt.wantCand); c.Candidate != want {
				t.Errorf("Candidate = %s, want %s (%q)", c.Candidate, want, tt.wantCand)
			}
			if want := idOf(tt.wantAlt); c.Alt != want {
				t.Errorf("Alt = %s, want %s (%q)", c.Alt, want, tt.wantAlt)
			}
		})
	}
}

// TestResolveDegenerateAngleIsAligned pins the behaviour for coincident
// markers: the undefined angle counts as 0, so each is in the other's cone.
func TestResolveDegenerateAngleIsAligned(t *testing.T) {
	ms := []marker.Marker{guide("a", 3, 3), mk("b", marker.TagGuide, 3, 3, 3.0)}

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})

	got := Resolve(ms, defaultParams, logger)
	if got[0].Candidate != ms[1].ID {
		t.Errorf("a.Candidate = %s, want %s", got[0].Candidate, ms[1].ID)
	}
	if got[1].Candidate != ms[0].ID {
		t.Errorf("b.Candidate = %s, want %s", got[1].Candidate, ms[0].ID)
	}
	if !strings.Contains(buf.String(), "angle undefined") {
		t.Errorf("expected a warning about the undefined angle, got %q", buf.String())
	}
}

func TestResolveEmpty(t *testing.T) {
	if got := Resolve(nil, defaultParams, nil); len(got) != 0 {
		t.Errorf("Resolve(nil) = %v, want empty", got)
	}
}

func idOf(name string) uuid.UUID {
	if name == "" {
		return uuid.Nil
	}
	return guide(name, 0, 0).ID
}
