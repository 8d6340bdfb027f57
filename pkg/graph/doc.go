// Package graph provides the serialization format for scanned track layouts.
//
// This package defines the canonical wire format used by `railinfra scan
// --format json`, the HTTP API and the artifact cache. It sits at the
// boundary between the internal representation and external formats:
//
//   - [Layout], [Track], [Point]: serialization types (this package)
//   - pkg/topology.Graph: node arena with resolved links
//   - pkg/layout.Layout: partition of the arena into tracks
//
// Use [FromLayout] to convert a scanned layout.
//
// # Format
//
//	{
//	  "region": {"name": "Rail Yard", "width": 256, "height": 256},
//	  "tracks": [
//	    {
//	      "id": 0,
//	      "points": [
//	        {"id": "…", "tag": "Guide", "kind": "Switch",
//	         "position": [10, 20, 22], "main": "…", "branch": "…"}
//	      ]
//	    }
//	  ]
//	}
//
// Links (prev, next, main, branch) hold marker IDs of points in the same
// layout. [UnmarshalLayout] rejects documents whose links point elsewhere.
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
