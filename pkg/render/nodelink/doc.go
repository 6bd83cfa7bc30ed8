// Package nodelink exports layout snapshots to Graphviz.
//
// [ToDOT] writes an undirected DOT graph in which every node is pinned at
// its simulated position (pos="x,y!"), sized and colored as the stylist
// resolved it. Rendering through the neato engine therefore reproduces the
// engine's layout with Graphviz's own shapes and label typesetting:
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Layout y grows downwards while Graphviz y grows upwards, so ToDOT flips
// the vertical axis.
package nodelink
