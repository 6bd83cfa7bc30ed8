package anim

import (
	"math"
	"time"

	"github.com/matzehuels/dimgraph/pkg/core/model"
)

// Default transition durations.
const (
	DefaultNodeDuration      = 1500 * time.Millisecond
	DefaultTransformDuration = 2000 * time.Millisecond
)

// EaseInOutCubic eases t in [0, 1]. Values outside are clamped.
func EaseInOutCubic(t float64) float64 {
	t = max(0, min(1, t))
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// =============================================================================
// Tween
// =============================================================================

// Tween tracks eased progress over a fixed duration.
type Tween struct {
	Duration time.Duration

	start   time.Time
	started bool
	done    bool
}

// NewTween returns a tween that starts on its first Progress call.
func NewTween(d time.Duration) *Tween {
	return &Tween{Duration: d}
}

// Progress returns eased progress at now and whether the tween finished.
func (t *Tween) Progress(now time.Time) (eased float64, done bool) {
	if t.done {
		return 1, true
	}
	if !t.started {
		t.start, t.started = now, true
	}
	if t.Duration <= 0 {
		t.done = true
		return 1, true
	}
	raw := float64(now.Sub(t.start)) / float64(t.Duration)
	if raw >= 1 {
		t.done = true
		return 1, true
	}
	return EaseInOutCubic(raw), false
}

// Done reports whether the tween has finished.
func (t *Tween) Done() bool { return t.done }

// Finish completes the tween immediately.
func (t *Tween) Finish() { t.done = true }

// =============================================================================
// NodeTransition
// =============================================================================

// Target is a destination for one node.
type Target struct {
	X, Y float64
}

// NodeTransition animates nodes to target positions.
type NodeTransition struct {
	tween *Tween
	nodes []*model.Node
	fromX []float64
	fromY []float64
	to    []Target
}

// NewNodeTransition captures the current position of every node in nodes
// that has a target. Nodes without a target, and fixed nodes, are left
// alone.
func NewNodeTransition(nodes []*model.Node, targets map[string]Target, d time.Duration) *NodeTransition {
	t := &NodeTransition{tween: NewTween(d)}
	for _, n := range nodes {
		dst, ok := targets[n.ID]
		if !ok || n.Fixed {
			continue
		}
		t.nodes = append(t.nodes, n)
		t.fromX = append(t.fromX, n.X)
		t.fromY = append(t.fromY, n.Y)
		t.to = append(t.to, dst)
	}
	return t
}

// Len returns the number of animated nodes.
func (t *NodeTransition) Len() int { return len(t.nodes) }

// Advance writes the interpolated positions for now and reports whether
// the transition is complete.
func (t *NodeTransition) Advance(now time.Time) bool {
	e, done := t.tween.Progress(now)
	for i, n := range t.nodes {
		n.X = Lerp(t.fromX[i], t.to[i].X, e)
		n.Y = Lerp(t.fromY[i], t.to[i].Y, e)
		n.VX, n.VY = 0, 0
	}
	return done
}

// Finish jumps every node to its target.
func (t *NodeTransition) Finish() {
	t.tween.Finish()
	for i, n := range t.nodes {
		n.X, n.Y = t.to[i].X, t.to[i].Y
		n.VX, n.VY = 0, 0
	}
}
