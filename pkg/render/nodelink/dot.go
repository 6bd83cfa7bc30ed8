package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dimgraph/pkg/core/style"
	"github.com/matzehuels/dimgraph/pkg/errors"
	"github.com/matzehuels/dimgraph/pkg/graph"
)

// pointsPerInch converts layout units to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT export.
type Options struct {
	// Detailed adds each node's dimension values to its label.
	Detailed bool
}

var dotShapes = map[style.Shape]string{
	style.ShapeCircle:    "circle",
	style.ShapeOval:      "ellipse",
	style.ShapeDiamond:   "diamond",
	style.ShapeOctagon:   "octagon",
	style.ShapeSquare:    "square",
	style.ShapeRectangle: "box",
}

// ToDOT converts a snapshot to Graphviz DOT with pinned node positions.
func ToDOT(s graph.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  inputscale=%g;\n", pointsPerInch)
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [style=filled, fixedsize=true, fontname=\"Helvetica\", penwidth=1.5, color=\"#ffffff\"];\n")
	buf.WriteString("  edge [color=\"#999999\"];\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		attrs := []string{
			fmt.Sprintf("penwidth=%.2f", e.Thickness),
			fmt.Sprintf("color=\"%s\"", edgeColor(e)),
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n graph.StyledNode, detailed bool) []string {
	shape, ok := dotShapes[style.Shape(n.Shape)]
	if !ok {
		shape = "circle"
	}
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X, -n.Y),
		"shape=" + shape,
		fmt.Sprintf("width=%.3f", n.Size/pointsPerInch),
		fmt.Sprintf("height=%.3f", n.Size/pointsPerInch),
		fmt.Sprintf("fillcolor=\"%s\"", n.Fill),
		fmt.Sprintf("fontcolor=\"%s\"", n.TextColor),
		fmt.Sprintf("fontsize=%.1f", max(8, n.Size*0.4)),
	}
	if n.Stroke != "" {
		attrs = append(attrs, fmt.Sprintf("color=\"%s\"", n.Stroke), "penwidth=3")
	}
	return attrs
}

func fmtLabel(n graph.StyledNode, detailed bool) string {
	if !detailed || len(n.Dimensions) == 0 {
		return n.Label
	}
	parts := []string{n.FullLabel}
	for _, k := range slices.Sorted(maps.Keys(n.Dimensions)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strconv.FormatFloat(n.Dimensions[k], 'g', 3, 64)))
	}
	return strings.Join(parts, "\n")
}

func edgeColor(e graph.StyledEdge) string {
	if e.Stroke != "" {
		return e.Stroke
	}
	// Graphviz takes opacity as the alpha byte of an RGBA color.
	return fmt.Sprintf("#999999%02x", int(max(0, min(1, e.Opacity))*255 + 0.5))
}

// RenderSVG lays out a DOT graph with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG lays out a DOT graph with neato and renders it to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
