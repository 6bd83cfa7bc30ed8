package graph

import (
	"fmt"
	"math"
)

// =============================================================================
// GraphData - Input Format
// =============================================================================

// GraphData is the canonical input format for the layout engine.
// Used for JSON files, API payloads and cache keys.
type GraphData struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is an input node.
type Node struct {
	ID         string             `json:"id" bson:"id"`
	Label      string             `json:"label,omitempty" bson:"label,omitempty"`
	Dimensions map[string]float64 `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	IsFixed    bool               `json:"isFixed,omitempty" bson:"is_fixed,omitempty"`
	X          *float64           `json:"x,omitempty" bson:"x,omitempty"` // Initial or pinned position
	Y          *float64           `json:"y,omitempty" bson:"y,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Position returns the explicit input position, if both coordinates are
// given and finite.
func (n *Node) Position() (x, y float64, ok bool) {
	if n.X == nil || n.Y == nil {
		return 0, 0, false
	}
	x, y = *n.X, *n.Y
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, 0, false
	}
	return x, y, true
}

// Edge is an input edge between two nodes.
type Edge struct {
	ID         string             `json:"id,omitempty" bson:"id,omitempty"`
	FromNodeID string             `json:"fromNodeId" bson:"from_node_id"`
	ToNodeID   string             `json:"toNodeId" bson:"to_node_id"`
	Strength   *float64           `json:"strength,omitempty" bson:"strength,omitempty"` // Defaults to DefaultStrength
	Dimensions map[string]float64 `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
}

// DefaultStrength is the spring strength of an edge that does not set one.
const DefaultStrength = 1.0

// StrengthOrDefault returns the edge strength, falling back to
// DefaultStrength when unset or not a finite non-negative number.
func (e *Edge) StrengthOrDefault() float64 {
	if e.Strength == nil {
		return DefaultStrength
	}
	s := *e.Strength
	if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
		return DefaultStrength
	}
	return s
}

// Float returns a pointer to v, for building optional fields.
func Float(v float64) *float64 { return &v }

// =============================================================================
// Snapshot - Layout Output
// =============================================================================

// Snapshot is a positioned and styled layout at one point in time.
//
// Node and edge coordinates are in layout space; apply Transform to map
// them into the viewport.
type Snapshot struct {
	ID         string       `json:"id,omitempty" bson:"id,omitempty"` // Engine instance id
	Width      float64      `json:"width" bson:"width"`
	Height     float64      `json:"height" bson:"height"`
	Transform  Transform    `json:"transform" bson:"transform"`
	State      string       `json:"state,omitempty" bson:"state,omitempty"`
	Iterations int          `json:"iterations" bson:"iterations"`
	Energy     float64      `json:"energy" bson:"energy"`
	Converged  bool         `json:"converged" bson:"converged"`
	FocusID    string       `json:"focus_id,omitempty" bson:"focus_id,omitempty"`
	Dimensions []string     `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Nodes      []StyledNode `json:"nodes" bson:"nodes"`
	Edges      []StyledEdge `json:"edges" bson:"edges"`
}

// Transform is a pan/zoom transform: screen = layout*Scale + Translate.
type Transform struct {
	TranslateX float64 `json:"translate_x" bson:"translate_x"`
	TranslateY float64 `json:"translate_y" bson:"translate_y"`
	Scale      float64 `json:"scale" bson:"scale"`
}

// String formats the transform as an SVG transform attribute.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.TranslateX, t.TranslateY, t.Scale)
}

// StyledNode is a node with its position and visual attributes.
type StyledNode struct {
	ID         string             `json:"id" bson:"id"`
	Label      string             `json:"label" bson:"label"`             // Truncated display label
	FullLabel  string             `json:"full_label" bson:"full_label"`   // Untruncated label
	X          float64            `json:"x" bson:"x"`
	Y          float64            `json:"y" bson:"y"`
	Size       float64            `json:"size" bson:"size"`
	Radius     float64            `json:"radius" bson:"radius"`
	Shape      string             `json:"shape" bson:"shape"`
	Fill       string             `json:"fill" bson:"fill"`             // Hex color
	FillHSL    string             `json:"fill_hsl" bson:"fill_hsl"`     // CSS hsl() form
	TextColor  string             `json:"text_color" bson:"text_color"` // Hex color
	Stroke     string             `json:"stroke,omitempty" bson:"stroke,omitempty"`
	Glow       bool               `json:"glow,omitempty" bson:"glow,omitempty"`
	Fixed      bool               `json:"fixed,omitempty" bson:"fixed,omitempty"`
	Selected   bool               `json:"selected,omitempty" bson:"selected,omitempty"`
	Focused    bool               `json:"focused,omitempty" bson:"focused,omitempty"`
	Dimensions map[string]float64 `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
}

// StyledEdge is a resolved edge with endpoint coordinates and visual attributes.
type StyledEdge struct {
	ID        string  `json:"id" bson:"id"`
	Source    string  `json:"source" bson:"source"`
	Target    string  `json:"target" bson:"target"`
	X1        float64 `json:"x1" bson:"x1"`
	Y1        float64 `json:"y1" bson:"y1"`
	X2        float64 `json:"x2" bson:"x2"`
	Y2        float64 `json:"y2" bson:"y2"`
	Strength  float64 `json:"strength" bson:"strength"`
	Thickness float64 `json:"thickness" bson:"thickness"`
	Opacity   float64 `json:"opacity" bson:"opacity"`
	Stroke    string  `json:"stroke,omitempty" bson:"stroke,omitempty"`
	Selected  bool    `json:"selected,omitempty" bson:"selected,omitempty"`
}

// Bounds returns the bounding box of all node shapes in layout space.
// ok is false for an empty snapshot.
func (s *Snapshot) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	if len(s.Nodes) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range s.Nodes {
		minX = min(minX, n.X-n.Radius)
		minY = min(minY, n.Y-n.Radius)
		maxX = max(maxX, n.X+n.Radius)
		maxY = max(maxY, n.Y+n.Radius)
	}
	return minX, minY, maxX, maxY, true
}

// Node returns the styled node with the given id.
func (s *Snapshot) Node(id string) (StyledNode, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return StyledNode{}, false
}
