// Package nodelink renders track layouts as node-link diagrams.
//
// # Overview
//
// [ToDOT] produces Graphviz DOT source with one cluster per track. Nodes
// are labelled with the short form of their marker ID; switches are drawn
// as diamonds and branch links are dashed. [RenderSVG] renders the DOT
// source in-process.
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels also carry the marker tag and world position
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for SVG rendering.
package nodelink
