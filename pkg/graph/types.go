package graph

import (
	"github.com/matzehuels/railinfra/pkg/layout"
	"github.com/matzehuels/railinfra/pkg/marker"
	"github.com/matzehuels/railinfra/pkg/topology"
)

// =============================================================================
// Layout - Track Layout Serialization
// =============================================================================

// Layout is the canonical serialization format for the track layout of one
// region. Tracks appear in ascending id order, points in track order.
type Layout struct {
	Region Region  `json:"region" bson:"region"`
	Tracks []Track `json:"tracks" bson:"tracks"`
}

// Region describes the region a layout was scanned from.
type Region struct {
	Name   string  `json:"name" bson:"name"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Track is one connected component of the layout.
type Track struct {
	ID     int     `json:"id" bson:"id"`
	Points []Point `json:"points" bson:"points"`
}

// =============================================================================
// Point - Track Point
// =============================================================================

// Point is a track point. Link fields hold marker IDs and are empty when the
// link is absent.
type Point struct {
	ID          string     `json:"id" bson:"id"`
	Tag         string     `json:"tag" bson:"tag"`
	Kind        string     `json:"kind" bson:"kind"` // "Guide" or "Switch"
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Position    [3]float64 `json:"position" bson:"position"`
	Prev        string     `json:"prev,omitempty" bson:"prev,omitempty"`
	Next        string     `json:"next,omitempty" bson:"next,omitempty"`
	Main        string     `json:"main,omitempty" bson:"main,omitempty"`
	Branch      string     `json:"branch,omitempty" bson:"branch,omitempty"`
}

// IsSwitch returns true if the point has two forward links.
func (p *Point) IsSwitch() bool { return p.Kind == topology.KindSwitch.String() }

// Links returns the non-empty links of p, back link first.
func (p *Point) Links() []string {
	var out []string
	for _, id := range []string{p.Prev, p.Next, p.Main, p.Branch} {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Points returns the number of points across all tracks.
func (l *Layout) Points() int {
	n := 0
	for _, t := range l.Tracks {
		n += len(t.Points)
	}
	return n
}

// =============================================================================
// Layout Conversion
// =============================================================================

// FromLayout converts a scanned layout of region r to its serialization
// format.
func FromLayout(r marker.Region, l *layout.Layout) Layout {
	g := l.Graph()
	out := Layout{
		Region: Region{Name: r.Name, Width: r.Width, Height: r.Height},
		Tracks: make([]Track, 0, l.Len()),
	}

	link := func(id topology.NodeID) string {
		if id == topology.None {
			return ""
		}
		return g.Node(id).MarkerID.String()
	}

	for _, id := range l.IDs() {
		members := l.Track(id)
		t := Track{ID: id, Points: make([]Point, len(members))}
		for i, n := range members {
			node := g.Node(n)
			m := g.Marker(n)
			t.Points[i] = Point{
				ID:          m.ID.String(),
				Tag:         m.Tag,
				Kind:        node.Kind.String(),
				Description: m.Description,
				Position:    [3]float64{m.Position.X, m.Position.Y, m.Position.Z},
				Prev:        link(node.Prev),
			}
			switch node.Kind {
			case topology.KindGuide:
				t.Points[i].Next = link(node.Next)
			case topology.KindSwitch:
				t.Points[i].Main = link(node.Main)
				t.Points[i].Branch = link(node.Branch)
			}
		}
		out.Tracks = append(out.Tracks, t)
	}
	return out
}
