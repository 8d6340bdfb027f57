// Package pkg provides the core libraries of railinfra.
//
// # Overview
//
// railinfra infers the topology of a rail network from oriented "Guide" and
// "Alt Guide" markers placed in a region. Each marker is linked to the
// nearest marker ahead of it inside a narrow cone; an Alt Guide that finds
// both a straight and a branch neighbor becomes a switch. The linked markers
// are grouped into tracks and rendered as text, a character grid or a
// node-link diagram.
//
// # Architecture
//
// The data flow of a scan:
//
//	scene file / MongoDB
//	         ↓
//	    [scene] (marker.Source)
//	         ↓
//	    [marker] Filter (eligible markers, sorted by ID)
//	         ↓
//	    [topology] Resolve → Build (node arena)
//	         ↓
//	    [layout] Build (tracks = connected components)
//	         ↓
//	    [render/text], [render/nodelink], [graph]
//
// [pipeline] runs these steps with caching and observability hooks;
// [region] publishes completed scans per region for concurrent readers.
//
// # Main Packages
//
// ## Core Domain Logic
//
// [geom] - forward axis, squared distance and cone angle on gonum vectors
// and quaternions.
//
// [marker] - markers, regions, the eligibility filter and the marker source
// contract.
//
// [topology] - the neighbor resolver and the node builder.
//
// [layout] - incremental track grouping with id merging.
//
// ## Rendering and Serialization
//
// [render/text] - the track listing and the character grid.
//
// [render/nodelink] - Graphviz DOT and SVG output.
//
// [graph] - JSON wire format of a scanned layout.
//
// ## Services
//
// [scene] - scene documents in JSON, TOML or YAML, and a MongoDB source.
//
// [fleet] and [chat] - the vehicle registry and the in-world script channel.
//
// ## Infrastructure
//
// [pipeline], [region], [cache], [config], [errors], [observability],
// [metrics], [httputil], [buildinfo].
//
// # Quick Start
//
//	src, _ := scene.Open("yard.yaml")
//	regions, _ := src.Regions(ctx)
//	ms, _ := src.Markers(ctx, regions[0].Name)
//	res, _ := pipeline.Scan(regions[0], ms, pipeline.Options{})
//	fmt.Print(text.Text(res.Layout))
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/geom
// [marker]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/marker
// [topology]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/topology
// [layout]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/layout
// [render/text]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/render/text
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/render/nodelink
// [graph]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/graph
// [scene]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/scene
// [fleet]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/fleet
// [chat]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/chat
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/pipeline
// [region]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/region
// [cache]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/metrics
// [httputil]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/railinfra/pkg/buildinfo
package pkg
