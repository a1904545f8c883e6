// Package io reads topology seed files and writes laid-out snapshots.
//
// # Seed Format
//
// A seed holds two arrays, nodes and links:
//
//	{
//	  "nodes": [
//	    {"id": 0, "x": 250, "y": 250, "radius": 5},
//	    {"id": 1, "x": 300, "y": 300, "radius": 10, "color": "#f00"}
//	  ],
//	  "links": [
//	    {"source": 0, "target": 1, "width": 2}
//	  ]
//	}
//
// The same shape is accepted as YAML and as TOML ([[nodes]] and [[links]]
// tables). Ids may be strings or integers; integers are read as their
// decimal string, so 1 and "1" name the same node.
//
// Node fields: id (required), x, y, radius, color, opacity, and fx/fy to pin
// the node. Link fields: source and target (required), width, color, opacity.
//
// Decoding checks shapes and ids only. Graph rules (duplicates, self-loops,
// unknown endpoints) are enforced when the data is inserted into an engine,
// which reports each offending record separately.
//
// # Export
//
// [WriteJSON] and [WriteYAML] write a snapshot in the seed format with the
// current positions, so a layout can be saved and re-imported.
package io
