package topology

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/railinfra/pkg/marker"
)

// linkField names the forward field a pending reference resolves into.
type linkField int

const (
	fieldNext linkField = iota
	fieldMain
	fieldBranch
)

// pendingLink is a forward link recorded by marker ID during the first pass.
type pendingLink struct {
	from   NodeID
	field  linkField
	target uuid.UUID
}

// builder holds the state of one Build call.
type builder struct {
	g       *Graph
	pending []pendingLink
}

// Build materializes the track graph for ms using the candidates computed by
// [Resolve]. cands must be parallel to ms.
//
// For each marker:
//   - Candidate and Alt: a Switch with Main → Candidate and Branch → Alt
//   - only one of them: a Guide with Next → that candidate
//   - neither: a dead-end Guide
//
// Every child receives a back-link to the node that references it. Build
// returns an error wrapping [ErrUnresolvedReference] if a candidate is not
// among ms, [ErrDuplicateMarker] if two markers share an ID, and
// [ErrNilMarker] for a marker with the nil UUID.
func Build(ms []marker.Marker, cands []Candidates) (*Graph, error) {
	if len(ms) != len(cands) {
		return nil, fmt.Errorf("%w: %d markers, %d candidates", ErrCandidateMismatch, len(ms), len(cands))
	}

	b := &builder{g: &Graph{
		markers:     ms,
		markerIndex: make(map[uuid.UUID]int, len(ms)),
		nodes:       make([]Node, 0, len(ms)),
		slots:       make(map[uuid.UUID]NodeID, len(ms)),
	}}
	for i, m := range ms {
		if m.ID == uuid.Nil {
			return nil, fmt.Errorf("%w: marker %d (%s)", ErrNilMarker, i, m.Tag)
		}
		if _, dup := b.g.markerIndex[m.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMarker, m.ID)
		}
		b.g.markerIndex[m.ID] = i
	}

	for i, m := range ms {
		b.visit(m, cands[i])
	}
	if err := b.resolve(); err != nil {
		return nil, err
	}

	b.g.computeAdjacency()
	return b.g, nil
}

// visit builds the concrete node for m, upgrading its placeholder slot if
// one was reserved earlier.
func (b *builder) visit(m marker.Marker, c Candidates) {
	id, reserved := b.g.slots[m.ID]
	prev := None
	if reserved {
		prev = b.g.nodes[id].Prev
	} else {
		id = b.alloc(m.ID)
	}

	var n Node
	switch {
	case c.HasCandidate() && c.HasAlt():
		n = newNode(KindSwitch, m.ID)
		b.link(id, fieldMain, c.Candidate)
		b.link(id, fieldBranch, c.Alt)
	case c.HasCandidate():
		n = newNode(KindGuide, m.ID)
		b.link(id, fieldNext, c.Candidate)
	case c.HasAlt():
		n = newNode(KindGuide, m.ID)
		b.link(id, fieldNext, c.Alt)
	default:
		n = newNode(KindGuide, m.ID)
	}

	n.Prev = prev
	b.g.nodes[id] = n
}

// alloc reserves a placeholder slot for the marker with the given ID.
func (b *builder) alloc(markerID uuid.UUID) NodeID {
	id := NodeID(len(b.g.nodes))
	b.g.nodes = append(b.g.nodes, newNode(KindPlaceholder, markerID))
	b.g.slots[markerID] = id
	return id
}

// link records a pending forward link from → target and sets the child's
// back-link, reserving a placeholder for a target not yet visited.
func (b *builder) link(from NodeID, field linkField, target uuid.UUID) {
	child, ok := b.g.slots[target]
	if !ok {
		child = b.alloc(target)
	}
	b.g.nodes[child].Prev = from
	b.pending = append(b.pending, pendingLink{from: from, field: field, target: target})
}

// resolve turns every pending link into a NodeID and checks that no
// placeholder is left.
func (b *builder) resolve() error {
	for _, p := range b.pending {
		to, ok := b.g.slots[p.target]
		if !ok || b.g.nodes[to].Kind == KindPlaceholder {
			return fmt.Errorf("%w: %s", ErrUnresolvedReference, p.target)
		}
		n := &b.g.nodes[p.from]
		switch p.field {
		case fieldNext:
			n.Next = to
		case fieldMain:
			n.Main = to
		case fieldBranch:
			n.Branch = to
		}
	}

	for id, n := range b.g.nodes {
		if n.Kind == KindPlaceholder {
			return fmt.Errorf("%w: node %d (marker %s)", ErrPlaceholderLeak, id, n.MarkerID)
		}
	}
	return nil
}
