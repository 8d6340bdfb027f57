// Package marker defines the oriented point objects that a track topology is
// inferred from, and the collaborator contract that supplies them.
//
// A [Marker] is a read-only snapshot of a scene object: a stable identity, a
// display tag, a part count, a world position and orientation, and the region
// it belongs to. Only single-part objects tagged "Guide" or "Alt Guide" take
// part in topology inference; see [Eligible] and [Filter].
package marker

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind distinguishes the two marker tags that take part in inference.
type Kind int

const (
	// KindNone is any tag that is not a guide.
	KindNone Kind = iota
	// KindGuide is a regular guide marker ("Guide").
	KindGuide
	// KindAltGuide is an alternate/branch guide marker ("Alt Guide").
	// Alt guides can never become a switch.
	KindAltGuide
)

// Marker tags as they appear on scene objects.
const (
	TagGuide    = "Guide"
	TagAltGuide = "Alt Guide"
)

// KindOf maps a display tag to its Kind.
func KindOf(tag string) Kind {
	switch tag {
	case TagGuide:
		return KindGuide
	case TagAltGuide:
		return KindAltGuide
	}
	return KindNone
}

// String returns the display tag for k.
func (k Kind) String() string {
	switch k {
	case KindGuide:
		return TagGuide
	case KindAltGuide:
		return TagAltGuide
	}
	return "None"
}

// Region is the owning region of a set of markers. Width and Height are the
// horizontal and vertical extents used for grid projection.
type Region struct {
	Name   string
	Width  float64
	Height float64
}

// Marker is an oriented point object in a region.
type Marker struct {
	ID          uuid.UUID
	Tag         string
	Description string
	Parts       int
	Position    r3.Vec
	Rotation    quat.Number
	Region      *Region
}

// Kind returns the marker kind derived from its tag.
func (m Marker) Kind() Kind { return KindOf(m.Tag) }

// String returns a short human-readable description.
func (m Marker) String() string {
	return fmt.Sprintf("%s %s <%.2f, %.2f, %.2f>", m.Tag, m.ID, m.Position.X, m.Position.Y, m.Position.Z)
}

// Eligible reports whether m takes part in topology inference: a single-part
// object tagged "Guide" or "Alt Guide".
func Eligible(m Marker) bool {
	return m.Parts == 1 && m.Kind() != KindNone
}

// Filter returns the eligible markers of ms sorted by ID.
//
// The neighbor search breaks distance ties by first-seen order, so a stable
// ordering keeps scans of the same scene reproducible.
func Filter(ms []Marker) []Marker {
	out := make([]Marker, 0, len(ms))
	for _, m := range ms {
		if Eligible(m) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b Marker) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return out
}

// Source supplies markers per region. Implementations are the scene or
// spatial index of the hosting environment.
type Source interface {
	// Regions lists the regions known to the source.
	Regions(ctx context.Context) ([]Region, error)

	// Markers returns the markers of the named region. The result may
	// contain ineligible markers; callers apply Filter.
	Markers(ctx context.Context, region string) ([]Marker, error)
}
