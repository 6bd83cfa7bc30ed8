// Package style maps dimension vectors to visual attributes.
//
// Every function here is pure: the same vector always yields the same
// style, and nothing in this package touches simulation state. Selection
// only adds highlight attributes.
//
// # Node Mapping
//
//	size      = 15 + influence*20          (15..35, radius = size/2)
//	fill      = HSL(era*360, fame*100%, 30 + creativity*40 %)
//	shape     = 6 equal bins of category
//	label     = truncated to 4, 8 or 12 runes by size
//	text      = black on light fills (lightness > 50%), white otherwise
//
// # Edge Mapping
//
//	thickness = 1 + weight*4               (clamped 1..5)
//	opacity   = 0.3 + confidence*0.7       (clamped 0.3..1)
//
// Dimension names are configurable through [Mapping]. A configured name
// matches a vector entry exactly first, then case-insensitively; missing
// values read as 0.5.
package style
