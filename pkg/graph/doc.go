// Package graph provides the serialization types for graph input and
// layout output.
//
// This package defines the wire format exchanged with hosts: JSON files,
// cache entries and renderer input. It carries no simulation logic.
//
// # Core Types
//
//   - [GraphData]: node-link input with per-node and per-edge dimensions
//   - [Node], [Edge]: input elements
//   - [Snapshot]: a styled, positioned layout produced by the engine
//   - [StyledNode], [StyledEdge]: snapshot elements with visual attributes
//
// # Graph Input
//
// Graphs use a node-link JSON format. Dimension values are normalized
// floats in [0, 1]; anything else is clamped by the engine.
//
//	{
//	  "nodes": [
//	    {"id": "a", "label": "Alpha", "dimensions": {"influence": 0.8}},
//	    {"id": "b", "isFixed": true, "x": 100, "y": 50}
//	  ],
//	  "edges": [
//	    {"id": "ab", "fromNodeId": "a", "toNodeId": "b", "strength": 0.5}
//	  ]
//	}
//
// Use [ReadGraph]/[ReadGraphFile] to decode and [WriteGraph]/[WriteGraphFile]
// to encode. Snapshots have the matching [ReadSnapshot]/[WriteSnapshot].
//
// # Snapshots
//
// A [Snapshot] is what renderers consume: node positions in layout space,
// the current viewport transform, and the Stylist's output for each
// element. Snapshots are plain data; they can be cached, diffed and
// re-rendered without the engine.
package graph
