// Package render groups the track layout renderers.
//
//   - [text]: the track listing and the fixed-size character grid used by
//     the console
//   - [nodelink]: Graphviz node-link diagrams with one cluster per track
//
// Both read a [layout.Layout] and never modify it, so one scan can be
// rendered in several formats concurrently.
//
// [text]: github.com/matzehuels/railinfra/pkg/render/text
// [nodelink]: github.com/matzehuels/railinfra/pkg/render/nodelink
// [layout.Layout]: github.com/matzehuels/railinfra/pkg/layout
package render
