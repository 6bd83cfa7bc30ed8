package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/dimgraph/pkg/core/style"
	"github.com/matzehuels/dimgraph/pkg/graph"
)

// FontFamily is the label font stack.
const FontFamily = `system-ui, -apple-system, "Segoe UI", Helvetica, Arial, sans-serif`

const (
	defaultEdgeStroke = "#999999"
	defaultNodeStroke = "#ffffff"
	fitPadding        = 20.0
)

const nodeInteractionCSS = `
    .node { transition: stroke-width 0.2s ease; cursor: pointer; }
    .node.highlight { stroke-width: 4; }
    .edge.dim { opacity: 0.1; }
    .label { pointer-events: none; }`

const nodeInteractionJS = `
    function neighbours(id) {
      const ids = new Set([id]);
      document.querySelectorAll('.edge').forEach(e => {
        if (e.dataset.source === id) ids.add(e.dataset.target);
        if (e.dataset.target === id) ids.add(e.dataset.source);
      });
      return ids;
    }
    function highlight(id) {
      const ids = neighbours(id);
      document.querySelectorAll('.node').forEach(n => n.classList.toggle('highlight', ids.has(n.dataset.id)));
      document.querySelectorAll('.edge').forEach(e => e.classList.toggle('dim', e.dataset.source !== id && e.dataset.target !== id));
    }
    function clearHighlight() {
      document.querySelectorAll('.node, .edge').forEach(el => el.classList.remove('highlight', 'dim'));
    }
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.dataset.id));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels      bool
	interactive bool
	transform   bool
	fit         bool
	background  string
}

func WithoutLabels() SVGOption          { return func(r *svgRenderer) { r.labels = false } }
func WithInteraction() SVGOption        { return func(r *svgRenderer) { r.interactive = true } }
func WithViewTransform() SVGOption      { return func(r *svgRenderer) { r.transform = true } }
func WithFit() SVGOption                { return func(r *svgRenderer) { r.fit = true } }
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// RenderSVG draws s.
func RenderSVG(s graph.Snapshot, opts ...SVGOption) []byte {
	r := svgRenderer{labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, w, h := 0.0, 0.0, s.Width, s.Height
	if r.fit {
		if x0, y0, x1, y1, ok := s.Bounds(); ok {
			minX, minY = x0-fitPadding, y0-fitPadding
			w, h = x1-x0+2*fitPadding, y1-y0+2*fitPadding
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, w, h, w, h)
	renderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			minX, minY, w, h, html.EscapeString(r.background))
	}

	if r.transform && !r.fit {
		fmt.Fprintf(&buf, `  <g transform="%s">`+"\n", s.Transform.String())
	} else {
		buf.WriteString("  <g>\n")
	}
	for _, e := range s.Edges {
		renderEdge(&buf, e)
	}
	for _, n := range s.Nodes {
		renderNode(&buf, n)
	}
	if r.labels {
		for _, n := range s.Nodes {
			renderLabel(&buf, n)
		}
	}
	buf.WriteString("  </g>\n")

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", nodeInteractionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <filter id="glow" x="-50%" y="-50%" width="200%" height="200%">
      <feGaussianBlur stdDeviation="4" result="blur"/>
      <feMerge><feMergeNode in="blur"/><feMergeNode in="SourceGraphic"/></feMerge>
    </filter>
  </defs>
`)
}

func renderEdge(buf *bytes.Buffer, e graph.StyledEdge) {
	stroke := e.Stroke
	if stroke == "" {
		stroke = defaultEdgeStroke
	}
	fmt.Fprintf(buf, `    <line class="edge" id="edge-%s" data-source="%s" data-target="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-opacity="%.2f"/>`+"\n",
		esc(e.ID), esc(e.Source), esc(e.Target), e.X1, e.Y1, e.X2, e.Y2, stroke, e.Thickness, e.Opacity)
}

func renderNode(buf *bytes.Buffer, n graph.StyledNode) {
	stroke, width := defaultNodeStroke, 1.5
	if n.Stroke != "" {
		stroke, width = n.Stroke, 3
	}
	attrs := fmt.Sprintf(`class="node" id="node-%s" data-id="%s" fill="%s" stroke="%s" stroke-width="%.1f"`,
		esc(n.ID), esc(n.ID), n.Fill, stroke, width)
	if n.Glow {
		attrs += ` filter="url(#glow)"`
	}

	r := n.Radius
	switch style.Shape(n.Shape) {
	case style.ShapeOval:
		fmt.Fprintf(buf, `    <ellipse %s cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f"/>`+"\n", attrs, n.X, n.Y, r*1.3, r*0.8)
	case style.ShapeDiamond:
		fmt.Fprintf(buf, `    <polygon %s points="%s"/>`+"\n", attrs, polygon(n.X, n.Y, r, 4, 0))
	case style.ShapeOctagon:
		fmt.Fprintf(buf, `    <polygon %s points="%s"/>`+"\n", attrs, polygon(n.X, n.Y, r, 8, math.Pi/8))
	case style.ShapeSquare:
		side := r * 1.8
		fmt.Fprintf(buf, `    <rect %s x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n", attrs, n.X-side/2, n.Y-side/2, side, side)
	case style.ShapeRectangle:
		w, h := r*2.6, r*1.6
		fmt.Fprintf(buf, `    <rect %s x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2"/>`+"\n", attrs, n.X-w/2, n.Y-h/2, w, h)
	default:
		fmt.Fprintf(buf, `    <circle %s cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", attrs, n.X, n.Y, r)
	}
}

// polygon returns the points of a regular k-gon around (cx, cy).
func polygon(cx, cy, r float64, k int, phase float64) string {
	var b bytes.Buffer
	for i := range k {
		a := phase + 2*math.Pi*float64(i)/float64(k) - math.Pi/2
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.2f,%.2f", cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	return b.String()
}

func renderLabel(buf *bytes.Buffer, n graph.StyledNode) {
	if n.Label == "" {
		return
	}
	fontSize := max(8, n.Size*0.4)
	fmt.Fprintf(buf, `    <text class="label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%.1f" fill="%s"><title>%s</title>%s</text>`+"\n",
		n.X, n.Y, esc(FontFamily), fontSize, n.TextColor, esc(n.FullLabel), esc(n.Label))
}

func esc(s string) string { return html.EscapeString(s) }
