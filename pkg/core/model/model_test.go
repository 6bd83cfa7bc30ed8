package model

import (
	"io"
	"math"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dimgraph/pkg/errors"
	"github.com/matzehuels/dimgraph/pkg/graph"
)

type diagnostics struct {
	codes   []errors.Code
	details []string
}

func (d *diagnostics) record(code errors.Code, detail string) {
	d.codes = append(d.codes, code)
	d.details = append(d.details, detail)
}

func newTestModel(d *diagnostics) *Model {
	opts := Options{Width: 800, Height: 600, Seed: 7, Logger: log.New(io.Discard)}
	if d != nil {
		opts.OnDiagnostic = d.record
	}
	return New(opts)
}

func nodes(ids ...string) []graph.Node {
	out := make([]graph.Node, len(ids))
	for i, id := range ids {
		out[i] = graph.Node{ID: id}
	}
	return out
}

func TestSpiralPlacement(t *testing.T) {
	m := newTestModel(nil)
	diff := m.Initialize(graph.GraphData{Nodes: nodes("a", "b", "c")})

	if !slices.Equal(diff.Added, []string{"a", "b", "c"}) {
		t.Errorf("Added = %v", diff.Added)
	}

	a, _ := m.Node("a")
	if math.Abs(a.X-424) > 1e-9 || math.Abs(a.Y-300) > 1e-9 {
		t.Errorf("slot 0 at (%v, %v), want (424, 300)", a.X, a.Y)
	}

	for i, n := range m.Nodes() {
		if n.Slot() != i {
			t.Errorf("node %s slot = %d, want %d", n.ID, n.Slot(), i)
		}
		wantX, wantY := m.SpiralPosition(i)
		if n.X != wantX || n.Y != wantY {
			t.Errorf("node %s at (%v, %v), want (%v, %v)", n.ID, n.X, n.Y, wantX, wantY)
		}
		if math.Abs(n.VX) > MaxInitialSpeed || math.Abs(n.VY) > MaxInitialSpeed {
			t.Errorf("node %s initial velocity (%v, %v) too large", n.ID, n.VX, n.VY)
		}
	}

	b, _ := m.Node("b")
	if a.X == b.X && a.Y == b.Y {
		t.Error("spiral placed two nodes on the same point")
	}
}

func TestInitialVelocityDeterministic(t *testing.T) {
	m1 := newTestModel(nil)
	m2 := newTestModel(nil)
	m1.Initialize(graph.GraphData{Nodes: nodes("a", "b")})
	m2.Initialize(graph.GraphData{Nodes: nodes("a", "b")})

	for i := range m1.Nodes() {
		n1, n2 := m1.Nodes()[i], m2.Nodes()[i]
		if n1.VX != n2.VX || n1.VY != n2.VY {
			t.Errorf("node %s velocity differs between equal seeds", n1.ID)
		}
	}
}

func TestUpdatePreservesPositions(t *testing.T) {
	m := newTestModel(nil)
	m.Initialize(graph.GraphData{Nodes: []graph.Node{
		{ID: "a", Dimensions: map[string]float64{"era": 0.1}},
		{ID: "b", Dimensions: map[string]float64{"era": 0.2}},
	}})

	// Simulate some movement.
	for _, n := range m.Nodes() {
		n.X += 13
		n.Y -= 7
		n.VX, n.VY = 1.5, -2.5
	}
	type state struct{ x, y, vx, vy float64 }
	before := map[string]state{}
	for _, n := range m.Nodes() {
		before[n.ID] = state{n.X, n.Y, n.VX, n.VY}
	}

	for _, era := range []float64{0.9, 0.4} {
		diff := m.Initialize(graph.GraphData{Nodes: []graph.Node{
			{ID: "a", Label: "Alpha", Dimensions: map[string]float64{"era": era}},
			{ID: "b", Dimensions: map[string]float64{"era": era, "fame": 0.3}},
		}})
		if diff.MembershipChanged() {
			t.Errorf("diff reports membership change: %+v", diff)
		}
		if len(diff.Updated) != 2 {
			t.Errorf("Updated = %v, want both nodes", diff.Updated)
		}
	}

	for _, n := range m.Nodes() {
		got := state{n.X, n.Y, n.VX, n.VY}
		if got != before[n.ID] {
			t.Errorf("node %s moved: %+v -> %+v", n.ID, before[n.ID], got)
		}
		if n.Dimensions.Value("era") != 0.4 {
			t.Errorf("node %s era = %v, want 0.4", n.ID, n.Dimensions.Value("era"))
		}
	}
	a, _ := m.Node("a")
	if a.Label != "Alpha" {
		t.Errorf("label = %q, want Alpha", a.Label)
	}
}

func TestUpdateMembership(t *testing.T) {
	m := newTestModel(nil)
	m.Initialize(graph.GraphData{Nodes: nodes("a", "b", "c")})

	diff := m.Initialize(graph.GraphData{Nodes: nodes("a", "c", "d")})
	if !slices.Equal(diff.Added, []string{"d"}) {
		t.Errorf("Added = %v, want [d]", diff.Added)
	}
	if !slices.Equal(diff.Removed, []string{"b"}) {
		t.Errorf("Removed = %v, want [b]", diff.Removed)
	}
	if _, ok := m.Node("b"); ok {
		t.Error("removed node still indexed")
	}

	d, _ := m.Node("d")
	if d.Slot() != 3 {
		t.Errorf("new node slot = %d, want 3 (continues the spiral)", d.Slot())
	}
	if len(m.Nodes()) != 3 {
		t.Errorf("len(Nodes) = %d, want 3", len(m.Nodes()))
	}
}

func TestFixedNodes(t *testing.T) {
	m := newTestModel(nil)
	m.Initialize(graph.GraphData{Nodes: []graph.Node{
		{ID: "pinned", IsFixed: true, X: graph.Float(10), Y: graph.Float(20)},
		{ID: "slot", IsFixed: true},
		{ID: "free", X: graph.Float(5), Y: graph.Float(6)},
	}})

	p, _ := m.Node("pinned")
	if !p.Fixed || p.X != 10 || p.Y != 20 || p.PinX != 10 || p.PinY != 20 {
		t.Errorf("pinned = %+v", p)
	}
	if p.VX != 0 || p.VY != 0 {
		t.Errorf("pinned velocity = (%v, %v), want zero", p.VX, p.VY)
	}

	s, _ := m.Node("slot")
	wantX, wantY := m.SpiralPosition(1)
	if s.PinX != wantX || s.PinY != wantY {
		t.Errorf("slot pin = (%v, %v), want spiral (%v, %v)", s.PinX, s.PinY, wantX, wantY)
	}

	f, _ := m.Node("free")
	if f.Fixed || f.X != 5 || f.Y != 6 {
		t.Errorf("free = %+v, want unfixed at (5, 6)", f)
	}

	// Pin moves with the input.
	m.Initialize(graph.GraphData{Nodes: []graph.Node{
		{ID: "pinned", IsFixed: true, X: graph.Float(30), Y: graph.Float(40)},
		{ID: "slot"},
		{ID: "free"},
	}})
	if p.PinX != 30 || p.PinY != 40 {
		t.Errorf("pin after update = (%v, %v), want (30, 40)", p.PinX, p.PinY)
	}
	if s.Fixed {
		t.Error("slot should be released")
	}
}

func TestDimensionsExtracted(t *testing.T) {
	var d diagnostics
	m := newTestModel(&d)
	m.Initialize(graph.GraphData{
		Nodes: []graph.Node{
			{ID: "a", Dimensions: map[string]float64{"era": 0.1, "fame": 0.5}},
			{ID: "b", Dimensions: map[string]float64{"era": 1.4}},
		},
		Edges: []graph.Edge{
			{ID: "e", FromNodeID: "a", ToNodeID: "b", Dimensions: map[string]float64{"weight": 0.7}},
		},
	})

	want := []string{"era", "fame", "weight"}
	if got := m.Dimensions().Names(); !slices.Equal(got, want) {
		t.Errorf("Dimensions = %v, want %v", got, want)
	}
	if got := m.NodeDimensions().Names(); !slices.Equal(got, []string{"era", "fame"}) {
		t.Errorf("NodeDimensions = %v, want [era fame]", got)
	}

	b, _ := m.Node("b")
	if b.Dimensions.Value("era") != 1 {
		t.Errorf("era = %v, want clamped to 1", b.Dimensions.Value("era"))
	}
	if b.Dimensions.Value("fame") != 0.5 {
		t.Errorf("missing fame = %v, want 0.5", b.Dimensions.Value("fame"))
	}

	// One range repair on b.era, one missing b.fame. Edge-only dimensions
	// are not expected on nodes.
	if len(d.codes) != 2 {
		t.Fatalf("diagnostics = %v, want 2", d.details)
	}
	for _, c := range d.codes {
		if c != errors.ErrCodeDataIntegrity {
			t.Errorf("code = %s, want DATA_INTEGRITY", c)
		}
	}

	// Reloading the same data does not report again.
	m.Initialize(graph.GraphData{Nodes: []graph.Node{
		{ID: "a", Dimensions: map[string]float64{"era": 0.1, "fame": 0.5}},
		{ID: "b", Dimensions: map[string]float64{"era": 1.4}},
	}})
	if len(d.codes) != 2 {
		t.Errorf("diagnostics repeated: %v", d.details)
	}
}

func TestLinksSkipDangling(t *testing.T) {
	var d diagnostics
	m := newTestModel(&d)
	m.Initialize(graph.GraphData{
		Nodes: nodes("a", "b"),
		Edges: []graph.Edge{
			{ID: "ok", FromNodeID: "a", ToNodeID: "b"},
			{ID: "bad", FromNodeID: "a", ToNodeID: "ghost"},
		},
	})

	for range 3 {
		links := m.Links()
		if len(links) != 1 || links[0].Edge.ID != "ok" {
			t.Fatalf("Links() = %+v, want only ok", links)
		}
		if links[0].Source.ID != "a" || links[0].Target.ID != "b" {
			t.Errorf("link endpoints = %s -> %s", links[0].Source.ID, links[0].Target.ID)
		}
	}
	if len(d.codes) != 1 {
		t.Errorf("dangling edge reported %d times, want 1", len(d.codes))
	}
}

func TestDerivedEdgeIDs(t *testing.T) {
	m := newTestModel(nil)
	data := graph.GraphData{
		Nodes: nodes("a", "b"),
		Edges: []graph.Edge{
			{FromNodeID: "a", ToNodeID: "b"},
			{FromNodeID: "a", ToNodeID: "b"},
		},
	}
	diff := m.Initialize(data)
	if len(diff.EdgesAdded) != 2 {
		t.Fatalf("EdgesAdded = %v", diff.EdgesAdded)
	}
	first := m.Edges()[0].ID
	if first == m.Edges()[1].ID {
		t.Error("parallel edges share an id")
	}
	if first != DeriveEdgeID("a", "b", 0) {
		t.Errorf("id = %s, want DeriveEdgeID(a, b, 0)", first)
	}

	m.Edges()[0].Selected = true
	diff = m.Initialize(data)
	if len(diff.EdgesAdded) != 0 || len(diff.EdgesRemoved) != 0 {
		t.Errorf("reload changed edges: %+v", diff)
	}
	if !m.Edges()[0].Selected {
		t.Error("edge selection lost across reload")
	}
}

func TestDuplicateNodeIgnored(t *testing.T) {
	var d diagnostics
	m := newTestModel(&d)
	m.Initialize(graph.GraphData{Nodes: []graph.Node{
		{ID: "a", Label: "first"},
		{ID: "a", Label: "second"},
	}})
	if len(m.Nodes()) != 1 {
		t.Fatalf("len(Nodes) = %d, want 1", len(m.Nodes()))
	}
	if m.Nodes()[0].Label != "first" {
		t.Errorf("label = %q, want first", m.Nodes()[0].Label)
	}
	if len(d.codes) != 1 {
		t.Errorf("diagnostics = %v", d.details)
	}
}

func TestSelection(t *testing.T) {
	m := newTestModel(nil)
	m.Initialize(graph.GraphData{
		Nodes: nodes("a", "b"),
		Edges: []graph.Edge{{ID: "e", FromNodeID: "a", ToNodeID: "b"}},
	})

	if !m.SelectNode("a") {
		t.Fatal("SelectNode(a) = false")
	}
	if !m.SelectEdge("e") {
		t.Fatal("SelectEdge(e) = false")
	}
	a, _ := m.Node("a")
	if a.Selected {
		t.Error("selecting an edge should clear node selection")
	}
	if m.SelectNode("ghost") {
		t.Error("SelectNode(ghost) = true")
	}
}

func TestNodeFinite(t *testing.T) {
	n := &Node{X: 1, Y: 2}
	if !n.Finite() {
		t.Error("finite node reported non-finite")
	}
	n.VY = math.Inf(1)
	if n.Finite() {
		t.Error("infinite velocity not detected")
	}
}
