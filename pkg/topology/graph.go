package topology

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/railinfra/pkg/marker"
)

// Graph is the node arena produced by [Build]. It is immutable once built
// and safe for concurrent reads.
type Graph struct {
	markers     []marker.Marker
	markerIndex map[uuid.UUID]int
	nodes       []Node
	slots       map[uuid.UUID]NodeID
	adjacent    [][]NodeID
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) Node { return g.nodes[id] }

// Nodes returns a copy of the arena in NodeID order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Marker returns the marker node id was built from.
func (g *Graph) Marker(id NodeID) marker.Marker { return g.markerOf(g.nodes[id]) }

// Markers returns the markers the graph was built from, in input order.
func (g *Graph) Markers() []marker.Marker { return slices.Clone(g.markers) }

// Lookup returns the node built from the marker with the given ID.
func (g *Graph) Lookup(markerID uuid.UUID) (NodeID, bool) {
	id, ok := g.slots[markerID]
	return id, ok
}

// Neighbors returns the nodes adjacent to id in ascending order: every node
// id links to and every node linking to id.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	return slices.Clone(g.adjacent[id])
}

// computeAdjacency fills the symmetric adjacency lists from node links.
func (g *Graph) computeAdjacency() {
	g.adjacent = make([][]NodeID, len(g.nodes))
	for i, n := range g.nodes {
		from := NodeID(i)
		for _, to := range n.Links() {
			g.adjacent[from] = append(g.adjacent[from], to)
			g.adjacent[to] = append(g.adjacent[to], from)
		}
	}
	for i, adj := range g.adjacent {
		slices.Sort(adj)
		g.adjacent[i] = slices.Compact(adj)
	}
}
