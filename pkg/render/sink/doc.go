// Package sink writes layout snapshots as standalone SVG documents.
//
// [RenderSVG] draws edges first, then node shapes, then labels, so labels
// are never hidden behind a neighbouring node. Node outlines follow the
// stylist's shape buckets:
//
//	circle     <circle>
//	oval       <ellipse>, wider than tall
//	diamond    4-point <polygon>
//	octagon    8-point <polygon>
//	square     <rect>
//	rectangle  <rect>, wider than tall
//
// The document's viewBox is the viewport size. Pass [WithViewTransform] to
// wrap the drawing in the snapshot's pan/zoom transform, or [WithFit] to
// crop the viewBox to the node bounds instead.
//
// Selected elements carry the highlight stroke and glowing nodes use a
// shared Gaussian blur filter.
package sink
