// Package layout partitions a track graph into tracks.
//
// A track is a maximal connected component of the graph's adjacency
// relation. A [Layout] assigns track IDs incrementally: each added node joins
// the track of its already-added neighbors, opening a new track when it has
// none and merging tracks when its neighbors span several. Track IDs start at
// 0, increase monotonically and are never reused; a merge always keeps the
// smallest ID.
//
// Once every node has been added, the partition equals the connected
// components of the graph regardless of insertion order. Only the order of
// members within a track depends on it.
//
//	g, _ := topology.Build(markers, topology.Resolve(markers, params, logger))
//	l := layout.Build(g)
//	for _, id := range l.IDs() {
//	    fmt.Println(id, len(l.Track(id)))
//	}
package layout

import (
	"maps"
	"slices"

	"github.com/matzehuels/railinfra/pkg/topology"
)

// Layout is the partition of a graph's nodes into tracks.
//
// A Layout is not safe for concurrent mutation. Once complete it is only
// read, and concurrent reads are safe.
type Layout struct {
	g       *topology.Graph
	tracks  map[int][]topology.NodeID
	trackOf map[topology.NodeID]int
	nextID  int
}

// New returns an empty layout over g.
func New(g *topology.Graph) *Layout {
	return &Layout{
		g:       g,
		tracks:  make(map[int][]topology.NodeID),
		trackOf: make(map[topology.NodeID]int),
	}
}

// Build returns the complete layout of g, adding nodes in NodeID order.
func Build(g *topology.Graph) *Layout {
	l := New(g)
	for i := range g.Len() {
		l.Add(topology.NodeID(i))
	}
	return l
}

// Add places node id into a track. Adding a node twice has no effect.
//
// The node joins the tracks held by its already-added neighbors: a new
// track if there are none, the single track if there is one, otherwise the
// smallest track after every other one has been merged into it.
func (l *Layout) Add(id topology.NodeID) {
	if _, ok := l.trackOf[id]; ok {
		return
	}

	ids := l.neighborTracks(id)
	switch len(ids) {
	case 0:
		l.place(id, l.newTrack())
	case 1:
		l.place(id, ids[0])
	default:
		dst := ids[0]
		for _, src := range ids[1:] {
			l.merge(dst, src)
		}
		l.place(id, dst)
	}
}

// neighborTracks returns the distinct track IDs of id's added neighbors in
// ascending order.
func (l *Layout) neighborTracks(id topology.NodeID) []int {
	var ids []int
	for _, n := range l.g.Neighbors(id) {
		if t, ok := l.trackOf[n]; ok {
			ids = append(ids, t)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func (l *Layout) newTrack() int {
	id := l.nextID
	l.nextID++
	l.tracks[id] = nil
	return id
}

func (l *Layout) place(id topology.NodeID, track int) {
	l.tracks[track] = append(l.tracks[track], id)
	l.trackOf[id] = track
}

// merge moves every member of src into dst and deletes src.
func (l *Layout) merge(dst, src int) {
	for _, id := range l.tracks[src] {
		l.tracks[dst] = append(l.tracks[dst], id)
		l.trackOf[id] = dst
	}
	delete(l.tracks, src)
}

// Graph returns the graph the layout partitions.
func (l *Layout) Graph() *topology.Graph { return l.g }

// Len returns the number of tracks.
func (l *Layout) Len() int { return len(l.tracks) }

// Size returns the number of nodes added so far.
func (l *Layout) Size() int { return len(l.trackOf) }

// IDs returns the track IDs in ascending order.
func (l *Layout) IDs() []int {
	return slices.Sorted(maps.Keys(l.tracks))
}

// Track returns the members of track id in insertion order, or nil if the
// track does not exist.
func (l *Layout) Track(id int) []topology.NodeID {
	return slices.Clone(l.tracks[id])
}

// TrackOf returns the track holding node id.
func (l *Layout) TrackOf(id topology.NodeID) (int, bool) {
	t, ok := l.trackOf[id]
	return t, ok
}
