// Package scene provides marker sources backed by scene documents.
//
// A scene document lists regions and the objects placed in them:
//
//	regions:
//	  - name: Rail Yard
//	    width: 256
//	    height: 256
//	    markers:
//	      - id: 6f1c4a8e-0d7b-4a57-9a43-1f4e2f7d8c11
//	        tag: Guide
//	        position: [10, 20, 22]
//	        yaw: 90
//
// Documents are read from JSON, TOML or YAML files, chosen by extension.
// Rotations are given either as a quaternion [x, y, z, w] or as a yaw in
// degrees about the vertical axis; a marker with neither faces +X. Parts
// defaults to 1.
//
// [Source] serves a document loaded from a file and re-reads it on
// [Source.Reload]. [MongoSource] serves regions and markers stored in
// MongoDB collections.
package scene
