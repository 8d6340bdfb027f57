// Package topology infers a directed track graph from oriented markers.
//
// Inference runs in two steps:
//
//  1. [Resolve] searches, for every marker, the nearest "Guide" and the
//     nearest "Alt Guide" inside its forward cone (a squared-distance bound
//     and an angle bound around the marker's forward axis).
//  2. [Build] turns the markers and their candidates into a [Graph] of
//     typed nodes: a Guide with one forward link, a Switch with a main and
//     a branch link, or a dead-end Guide with none.
//
// # Arena
//
// Nodes live in a flat arena addressed by [NodeID]. Links are NodeIDs, with
// [None] marking an absent link, so mutual references need no pointers.
//
// # Forward References
//
// A marker may be referenced as a candidate before it has been visited. The
// builder then reserves a [KindPlaceholder] slot for it, which collects the
// transient back-link. When the marker is visited the slot is upgraded in
// place and keeps that back-link. Forward links are recorded as pending
// marker references during the first pass and resolved to NodeIDs in a
// second pass; a reference to a marker that was never materialized aborts
// the build with [ErrUnresolvedReference]. A successful build never
// contains a placeholder.
//
// # Adjacency
//
// Two nodes are adjacent iff one appears in the other's [Node.Links].
// [Graph.Neighbors] returns this symmetric relation, which is what track
// grouping needs: a node's own Prev only records the last node that linked
// to it.
package topology
