package physics

import (
	"math"

	"github.com/matzehuels/dimgraph/pkg/core/model"
	"github.com/matzehuels/dimgraph/pkg/dimension"
)

// Focus orbit radius bounds: similar nodes orbit at FocusInnerRadius,
// dissimilar ones out to FocusInnerRadius+FocusRadiusSpan.
const (
	FocusInnerRadius = 100.0
	FocusRadiusSpan  = 180.0
)

// Point is a layout-space coordinate.
type Point struct {
	X, Y float64
}

// FocusTarget returns the position n should settle at while focus is the
// focus node and (cx, cy) is the viewport center.
//
// The angle sums the per-dimension difference to the focus node with
// alternating signs over the sorted dimension set, scaled to π. The radius
// grows with dissimilarity.
func FocusTarget(n, focus *model.Node, dims dimension.Set, cx, cy float64) Point {
	if n == focus {
		return Point{cx, cy}
	}
	var angle float64
	for k, name := range dims.Names() {
		diff := n.Dimensions.Value(name) - focus.Dimensions.Value(name)
		if k%2 == 1 {
			diff = -diff
		}
		angle += diff * math.Pi
	}
	sim := dimension.Similarity(n.Dimensions, focus.Dimensions, dims)
	r := FocusInnerRadius + (1-sim)*FocusRadiusSpan
	return Point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
}

// FocusTargets returns the focus position of every unfixed node, keyed by
// id. It returns nil when focusID is not in the model.
func FocusTargets(m *model.Model, focusID string, dims dimension.Set) map[string]Point {
	focus, ok := m.Node(focusID)
	if !ok {
		return nil
	}
	cx, cy := m.Center()
	targets := make(map[string]Point, len(m.Nodes()))
	for _, n := range m.Nodes() {
		if n.Fixed {
			continue
		}
		targets[n.ID] = FocusTarget(n, focus, dims, cx, cy)
	}
	return targets
}
