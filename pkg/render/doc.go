// Package render turns layout snapshots into documents.
//
// # Overview
//
// Snapshots produced by the engine carry resolved positions and styles, so
// every renderer here is a pure function of a [graph.Snapshot]:
//
//   - [sink]: native SVG output with shape outlines, glow and labels
//   - [nodelink]: Graphviz DOT export with pinned positions, rendered
//     through neato
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	svg := sink.RenderSVG(snap)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [graph.Snapshot]: github.com/matzehuels/dimgraph/pkg/graph.Snapshot
package render
