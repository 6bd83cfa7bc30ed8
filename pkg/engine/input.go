package engine

import "math"

// Input tolerances in screen pixels.
const (
	// ClickSlop is how far a press may travel and still count as a click.
	ClickSlop = 3.0
	// EdgeHitTolerance is the minimum pick distance around an edge line.
	EdgeHitTolerance = 4.0
)

type targetKind int

const (
	targetNone targetKind = iota
	targetNode
	targetEdge
)

// press tracks one pointer or touch press from down to up.
type press struct {
	kind   targetKind
	id     string
	x, y   float64
	moved  bool
	panned bool
}

// =============================================================================
// Pointer
// =============================================================================

// PointerDown handles a press at screen point (x, y). A press on the
// background starts a pan.
func (e *Engine) PointerDown(x, y float64) {
	if e.unavailable("pointer-down") {
		return
	}
	kind, id := e.hitTest(x, y)
	p := &press{kind: kind, id: id, x: x, y: y}
	p.panned = e.view.PointerDown(x, y, kind != targetNone)
	e.press = p
}

// PointerMove handles pointer movement.
func (e *Engine) PointerMove(x, y float64) {
	p := e.press
	if p == nil || e.state == StateDestroyed {
		return
	}
	if !p.moved && math.Hypot(x-p.x, y-p.y) > ClickSlop {
		p.moved = true
	}
	if p.panned {
		e.view.PointerMove(x, y)
	}
}

// PointerUp ends a press. A press that did not move and started on a node
// or edge selects it and emits a click event.
func (e *Engine) PointerUp() {
	p := e.press
	e.press = nil
	if p == nil || e.state == StateDestroyed {
		return
	}
	e.view.PointerUp()
	if p.moved {
		return
	}
	switch p.kind {
	case targetNode:
		if e.model.SelectNode(p.id) {
			e.logger.Debug("node clicked", "node", p.id)
			e.emit(NodeClicked{NodeID: p.id})
		}
	case targetEdge:
		if e.model.SelectEdge(p.id) {
			e.logger.Debug("edge clicked", "edge", p.id)
			e.emit(EdgeClicked{EdgeID: p.id})
		}
	}
}

// Wheel zooms around screen point (x, y).
func (e *Engine) Wheel(x, y, deltaY float64) {
	if e.unavailable("wheel") {
		return
	}
	e.view.Wheel(x, y, deltaY)
}

// Pan moves the view by (dx, dy) screen units, as keyboard hosts do
// instead of dragging. It is ignored while the viewport animates.
func (e *Engine) Pan(dx, dy float64) {
	if e.unavailable("pan") {
		return
	}
	e.view.Pan(dx, dy)
}

// TouchStart maps a single touch onto PointerDown.
func (e *Engine) TouchStart(x, y float64) { e.PointerDown(x, y) }

// TouchMove maps a single touch onto PointerMove.
func (e *Engine) TouchMove(x, y float64) { e.PointerMove(x, y) }

// TouchEnd maps a single touch onto PointerUp.
func (e *Engine) TouchEnd() { e.PointerUp() }

// =============================================================================
// Hit Testing
// =============================================================================

// HitTest returns the id of the node or edge under screen point (x, y).
// Nodes win over edges; among overlapping nodes the last drawn wins.
func (e *Engine) HitTest(x, y float64) (id string, isNode bool) {
	kind, id := e.hitTest(x, y)
	return id, kind == targetNode
}

func (e *Engine) hitTest(sx, sy float64) (targetKind, string) {
	t := e.view.Transform()
	x, y := t.Invert(sx, sy)

	nodes := e.model.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		r := e.stylist.Radius(n.Dimensions)
		if math.Hypot(x-n.X, y-n.Y) <= r {
			return targetNode, n.ID
		}
	}

	links := e.model.Links()
	for i := len(links) - 1; i >= 0; i-- {
		l := links[i]
		tol := max(EdgeHitTolerance/t.Scale, e.stylist.Edge(l.Edge.Dimensions, false).Thickness/2)
		if segmentDistance(x, y, l.Source.X, l.Source.Y, l.Target.X, l.Target.Y) <= tol {
			return targetEdge, l.Edge.ID
		}
	}
	return targetNone, ""
}

// segmentDistance is the distance from (px, py) to segment a-b.
func segmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	u := ((px-ax)*dx + (py-ay)*dy) / l2
	u = max(0, min(1, u))
	return math.Hypot(px-(ax+u*dx), py-(ay+u*dy))
}
