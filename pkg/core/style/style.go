package style

import (
	"cmp"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/dimgraph/pkg/dimension"
)

// Size bounds.
const (
	MinSize   = 15.0
	SizeRange = 20.0
)

// Highlight colors for selected elements.
const (
	HighlightStroke = "#ffb000"
	TextDark        = "#000000"
	TextLight       = "#ffffff"
)

// Shape is a node outline.
type Shape string

// Node shapes, in category bin order.
const (
	ShapeCircle    Shape = "circle"
	ShapeOval      Shape = "oval"
	ShapeDiamond   Shape = "diamond"
	ShapeOctagon   Shape = "octagon"
	ShapeSquare    Shape = "square"
	ShapeRectangle Shape = "rectangle"
)

// Shapes lists every shape in category bin order.
var Shapes = []Shape{ShapeCircle, ShapeOval, ShapeDiamond, ShapeOctagon, ShapeSquare, ShapeRectangle}

// Mapping names the dimensions read by the stylist.
type Mapping struct {
	Influence  string `toml:"influence" json:"influence,omitempty"`
	Era        string `toml:"era" json:"era,omitempty"`
	Fame       string `toml:"fame" json:"fame,omitempty"`
	Creativity string `toml:"creativity" json:"creativity,omitempty"`
	Category   string `toml:"category" json:"category,omitempty"`
	Weight     string `toml:"weight" json:"weight,omitempty"`
	Confidence string `toml:"confidence" json:"confidence,omitempty"`
}

// DefaultMapping returns the standard dimension names.
func DefaultMapping() Mapping {
	return Mapping{
		Influence:  "influence",
		Era:        "era",
		Fame:       "fame",
		Creativity: "creativity",
		Category:   "category",
		Weight:     "weight",
		Confidence: "confidence",
	}
}

// withDefaults fills empty names from DefaultMapping.
func (m Mapping) withDefaults() Mapping {
	d := DefaultMapping()
	return Mapping{
		Influence:  cmp.Or(m.Influence, d.Influence),
		Era:        cmp.Or(m.Era, d.Era),
		Fame:       cmp.Or(m.Fame, d.Fame),
		Creativity: cmp.Or(m.Creativity, d.Creativity),
		Category:   cmp.Or(m.Category, d.Category),
		Weight:     cmp.Or(m.Weight, d.Weight),
		Confidence: cmp.Or(m.Confidence, d.Confidence),
	}
}

// Stylist applies a Mapping. The zero value uses DefaultMapping.
type Stylist struct {
	mapping Mapping
}

// New returns a stylist for m. Empty names fall back to the defaults.
func New(m Mapping) Stylist {
	return Stylist{mapping: m.withDefaults()}
}

// Default returns a stylist using DefaultMapping.
func Default() Stylist { return New(DefaultMapping()) }

// Mapping returns the effective mapping.
func (s Stylist) Mapping() Mapping { return s.mapping.withDefaults() }

func (s Stylist) value(v dimension.Vector, name string) float64 {
	if x, ok := v.Lookup(name); ok {
		return x
	}
	return dimension.Default
}

// =============================================================================
// Nodes
// =============================================================================

// NodeStyle is the visual description of a node.
type NodeStyle struct {
	Size      float64
	Radius    float64
	Shape     Shape
	Color     Color
	TextColor string
	Label     string
	Stroke    string
	Glow      bool
}

// Node styles a node from its dimensions.
func (s Stylist) Node(dims dimension.Vector, label string, selected bool) NodeStyle {
	m := s.Mapping()
	size := Size(s.value(dims, m.Influence))
	c := NodeColor(s.value(dims, m.Era), s.value(dims, m.Fame), s.value(dims, m.Creativity))
	st := NodeStyle{
		Size:      size,
		Radius:    size / 2,
		Shape:     ShapeFor(s.value(dims, m.Category)),
		Color:     c,
		TextColor: TextColor(c),
		Label:     TruncateLabel(label, size),
	}
	if selected {
		st.Stroke = HighlightStroke
		st.Glow = true
	}
	return st
}

// Radius returns the rendered radius of a node with dims.
func (s Stylist) Radius(dims dimension.Vector) float64 {
	return Size(s.value(dims, s.Mapping().Influence)) / 2
}

// Size maps influence onto the node diameter.
func Size(influence float64) float64 {
	influence, _ = dimension.Sanitize(influence)
	return MinSize + influence*SizeRange
}

// ShapeFor buckets category into one of the six shapes.
func ShapeFor(category float64) Shape {
	category, _ = dimension.Sanitize(category)
	i := int(math.Floor(category * float64(len(Shapes))))
	return Shapes[min(i, len(Shapes)-1)]
}

// TruncateLabel shortens label to fit a node of the given size, appending
// an ellipsis when anything was cut.
func TruncateLabel(label string, size float64) string {
	limit := 12
	switch {
	case size < 20:
		limit = 4
	case size < 30:
		limit = 8
	}
	if utf8.RuneCountInString(label) <= limit {
		return label
	}
	r := []rune(label)
	return string(r[:limit]) + "…"
}

// =============================================================================
// Color
// =============================================================================

// Color is an HSL fill. H is in degrees, S and L in percent.
type Color struct {
	H, S, L float64
}

// NodeColor maps era, fame and creativity onto a fill color. Lightness
// stays within 30..70% so labels remain readable.
func NodeColor(era, fame, creativity float64) Color {
	era, _ = dimension.Sanitize(era)
	fame, _ = dimension.Sanitize(fame)
	creativity, _ = dimension.Sanitize(creativity)
	return Color{
		H: era * 360,
		S: fame * 100,
		L: max(30, min(70, 30+creativity*40)),
	}
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return colorful.Hsl(math.Mod(c.H, 360), c.S/100, c.L/100).Clamped().Hex()
}

// CSS returns the color in CSS hsl() notation.
func (c Color) CSS() string {
	return fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", c.H, c.S, c.L)
}

// TextColor picks a label color that contrasts with fill.
func TextColor(fill Color) string {
	if fill.L > 50 {
		return TextDark
	}
	return TextLight
}

// =============================================================================
// Edges
// =============================================================================

// EdgeStyle is the visual description of an edge.
type EdgeStyle struct {
	Thickness float64
	Opacity   float64
	Stroke    string
}

// Edge styles an edge from its dimensions.
func (s Stylist) Edge(dims dimension.Vector, selected bool) EdgeStyle {
	m := s.Mapping()
	st := EdgeStyle{
		Thickness: Thickness(s.value(dims, m.Weight)),
		Opacity:   Opacity(s.value(dims, m.Confidence)),
	}
	if selected {
		st.Stroke = HighlightStroke
		st.Opacity = 1
	}
	return st
}

// Thickness maps an edge weight onto a stroke width in 1..5.
func Thickness(weight float64) float64 {
	weight, _ = dimension.Sanitize(weight)
	return max(1, min(5, 1+weight*4))
}

// Opacity maps an edge confidence onto an opacity in 0.3..1.
func Opacity(confidence float64) float64 {
	confidence, _ = dimension.Sanitize(confidence)
	return max(0.3, min(1, 0.3+confidence*0.7))
}
