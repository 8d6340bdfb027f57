package topology

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/railinfra/pkg/marker"
)

var (
	// ErrUnresolvedReference is returned by [Build] when a forward link
	// targets a marker that was never materialized as a concrete node.
	ErrUnresolvedReference = errors.New("unresolved marker reference")

	// ErrPlaceholderLeak is returned by [Build] when a placeholder node
	// survives reference resolution.
	ErrPlaceholderLeak = errors.New("placeholder left in graph")

	// ErrDuplicateMarker is returned by [Build] when two markers share an ID.
	ErrDuplicateMarker = errors.New("duplicate marker ID")

	// ErrNilMarker is returned by [Build] for a marker whose ID is uuid.Nil,
	// which [Candidates] reserves for "no neighbor".
	ErrNilMarker = errors.New("marker has nil ID")

	// ErrCandidateMismatch is returned by [Build] when the candidate list is
	// not parallel to the marker list.
	ErrCandidateMismatch = errors.New("candidates do not match markers")
)

// NodeID addresses a node in a [Graph] arena.
type NodeID int

// None marks an absent link.
const None NodeID = -1

// Kind is the variant of a [Node].
type Kind int

const (
	// KindPlaceholder stands in for a marker referenced before it was
	// visited. It never survives a successful Build.
	KindPlaceholder Kind = iota
	// KindGuide has at most one forward link, Next.
	KindGuide
	// KindSwitch has two forward links, Main and Branch.
	KindSwitch
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindGuide:
		return "Guide"
	case KindSwitch:
		return "Switch"
	case KindPlaceholder:
		return "Placeholder"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is a track point. Which forward fields are meaningful depends on
// Kind: Guide uses Next, Switch uses Main and Branch, Placeholder uses none.
// Unused fields hold None.
type Node struct {
	Kind     Kind
	MarkerID uuid.UUID

	Prev   NodeID
	Next   NodeID
	Main   NodeID
	Branch NodeID
}

func newNode(kind Kind, id uuid.UUID) Node {
	return Node{Kind: kind, MarkerID: id, Prev: None, Next: None, Main: None, Branch: None}
}

// Forward returns the forward links of the node's variant, skipping absent
// ones.
func (n Node) Forward() []NodeID {
	var out []NodeID
	switch n.Kind {
	case KindGuide:
		out = appendLink(out, n.Next)
	case KindSwitch:
		out = appendLink(out, n.Main)
		out = appendLink(out, n.Branch)
	}
	return out
}

// Links returns every link the node holds: Prev followed by Forward.
func (n Node) Links() []NodeID {
	return append(appendLink(nil, n.Prev), n.Forward()...)
}

// IsDeadEnd reports whether a Guide has no forward link.
func (n Node) IsDeadEnd() bool {
	return n.Kind == KindGuide && n.Next == None
}

func appendLink(links []NodeID, id NodeID) []NodeID {
	if id == None {
		return links
	}
	return append(links, id)
}

// Describe returns a one-line description of node id: its variant, the
// marker it was built from and its links by marker ID prefix.
func (g *Graph) Describe(id NodeID) string {
	n := g.nodes[id]
	m := g.Marker(id)

	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-9s %s <%.2f, %.2f, %.2f>", n.Kind, m.Tag, m.ID, m.Position.X, m.Position.Y, m.Position.Z)

	link := func(name string, to NodeID) {
		if to != None {
			fmt.Fprintf(&b, " %s=%s", name, shortID(g.nodes[to].MarkerID))
		}
	}
	link("prev", n.Prev)
	switch n.Kind {
	case KindGuide:
		link("next", n.Next)
	case KindSwitch:
		link("main", n.Main)
		link("branch", n.Branch)
	}
	return b.String()
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// markerOf returns the marker a node was built from, or the zero Marker for
// an unvisited placeholder.
func (g *Graph) markerOf(n Node) marker.Marker {
	if i, ok := g.markerIndex[n.MarkerID]; ok {
		return g.markers[i]
	}
	return marker.Marker{ID: n.MarkerID}
}
