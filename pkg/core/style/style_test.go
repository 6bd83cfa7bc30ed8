package style

import (
	"math"
	"testing"

	"github.com/matzehuels/dimgraph/pkg/dimension"
)

func TestSize(t *testing.T) {
	tests := []struct {
		influence float64
		want      float64
	}{
		{0, 15},
		{0.5, 25},
		{1, 35},
		{-1, 15},
		{2, 35},
	}
	for _, tt := range tests {
		if got := Size(tt.influence); got != tt.want {
			t.Errorf("Size(%v) = %v, want %v", tt.influence, got, tt.want)
		}
	}
}

func TestNodeDefaults(t *testing.T) {
	st := Default().Node(dimension.Vector{}, "label", false)
	if st.Size != 25 || st.Radius != 12.5 {
		t.Errorf("size/radius = %v/%v, want 25/12.5", st.Size, st.Radius)
	}
	if st.Shape != ShapeOctagon {
		t.Errorf("shape = %s, want octagon for category 0.5", st.Shape)
	}
	if st.Color != (Color{H: 180, S: 50, L: 50}) {
		t.Errorf("color = %+v", st.Color)
	}
	if st.Stroke != "" || st.Glow {
		t.Error("unselected node should not be highlighted")
	}
}

func TestShapeFor(t *testing.T) {
	tests := []struct {
		category float64
		want     Shape
	}{
		{0, ShapeCircle},
		{0.16, ShapeCircle},
		{0.17, ShapeOval},
		{0.4, ShapeDiamond},
		{0.6, ShapeOctagon},
		{0.7, ShapeSquare},
		{0.9, ShapeRectangle},
		{1, ShapeRectangle},
	}
	for _, tt := range tests {
		if got := ShapeFor(tt.category); got != tt.want {
			t.Errorf("ShapeFor(%v) = %s, want %s", tt.category, got, tt.want)
		}
	}
}

func TestNodeColor(t *testing.T) {
	c := NodeColor(0.5, 1, 0)
	if c.H != 180 || c.S != 100 || c.L != 30 {
		t.Errorf("NodeColor = %+v", c)
	}
	if c := NodeColor(0, 0, 1); c.L != 70 {
		t.Errorf("lightness = %v, want 70", c.L)
	}

	if got := (Color{H: 0, S: 100, L: 50}).Hex(); got != "#ff0000" {
		t.Errorf("Hex() = %s, want #ff0000", got)
	}
	if got := (Color{H: 360, S: 0, L: 60}).Hex(); got != "#999999" {
		t.Errorf("Hex() = %s, want #999999", got)
	}
	if got := (Color{H: 120, S: 50, L: 40}).CSS(); got != "hsl(120, 50%, 40%)" {
		t.Errorf("CSS() = %s", got)
	}
}

func TestTextColor(t *testing.T) {
	if got := TextColor(Color{L: 70}); got != TextDark {
		t.Errorf("light fill text = %s, want dark", got)
	}
	if got := TextColor(Color{L: 50}); got != TextLight {
		t.Errorf("mid fill text = %s, want light", got)
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		label string
		size  float64
		want  string
	}{
		{"abc", 15, "abc"},
		{"abcdef", 15, "abcd…"},
		{"abcdefghij", 25, "abcdefgh…"},
		{"abcdefghijklmnop", 35, "abcdefghijkl…"},
		{"short", 35, "short"},
		{"ünïcödé", 15, "ünïc…"},
	}
	for _, tt := range tests {
		if got := TruncateLabel(tt.label, tt.size); got != tt.want {
			t.Errorf("TruncateLabel(%q, %v) = %q, want %q", tt.label, tt.size, got, tt.want)
		}
	}
}

func TestEdgeStyle(t *testing.T) {
	tests := []struct {
		name          string
		dims          map[string]float64
		wantThickness float64
		wantOpacity   float64
	}{
		{"defaults", nil, 3, 0.65},
		{"min", map[string]float64{"weight": 0, "confidence": 0}, 1, 0.3},
		{"max", map[string]float64{"weight": 1, "confidence": 1}, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Default().Edge(dimension.FromMap(tt.dims), false)
			if st.Thickness != tt.wantThickness {
				t.Errorf("Thickness = %v, want %v", st.Thickness, tt.wantThickness)
			}
			if math.Abs(st.Opacity-tt.wantOpacity) > 1e-9 {
				t.Errorf("Opacity = %v, want %v", st.Opacity, tt.wantOpacity)
			}
		})
	}

	sel := Default().Edge(dimension.Vector{}, true)
	if sel.Stroke != HighlightStroke || sel.Opacity != 1 {
		t.Errorf("selected edge = %+v", sel)
	}
}

func TestMappingLookup(t *testing.T) {
	dims := dimension.FromMap(map[string]float64{"Influence": 1, "size": 0})

	if got := Default().Node(dims, "", false).Size; got != 35 {
		t.Errorf("case-insensitive influence: size = %v, want 35", got)
	}

	custom := New(Mapping{Influence: "size"})
	if got := custom.Node(dims, "", false).Size; got != 15 {
		t.Errorf("custom mapping: size = %v, want 15", got)
	}
	if custom.Mapping().Era != "era" {
		t.Errorf("unset mapping fields should default, got %+v", custom.Mapping())
	}
	if got := custom.Radius(dims); got != 7.5 {
		t.Errorf("Radius = %v, want 7.5", got)
	}
}

func TestSelectedNode(t *testing.T) {
	st := Default().Node(dimension.Vector{}, "x", true)
	if st.Stroke != HighlightStroke || !st.Glow {
		t.Errorf("selected node = %+v", st)
	}
	plain := Default().Node(dimension.Vector{}, "x", false)
	if st.Size != plain.Size || st.Color != plain.Color {
		t.Error("selection changed size or color")
	}
}
