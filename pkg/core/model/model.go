package model

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/matzehuels/dimgraph/pkg/dimension"
	"github.com/matzehuels/dimgraph/pkg/errors"
	"github.com/matzehuels/dimgraph/pkg/graph"
)

// GoldenAngle is the spiral increment π(3 - √5).
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

const (
	// SpiralScale is the spiral radius unit as a fraction of the smaller
	// viewport side.
	SpiralScale = 0.04

	// MaxInitialSpeed bounds each component of the initial velocity.
	MaxInitialSpeed = 0.5
)

var edgeNamespace = uuid.MustParse("6f1c2a4e-3b7d-5e09-9a41-d2c8f0b6e713")

// Options configures a Model.
type Options struct {
	Width, Height float64
	Seed          int64
	Logger        *log.Logger

	// OnDiagnostic receives every data repair, once per condition.
	OnDiagnostic func(code errors.Code, detail string)
}

// Model holds the node and edge records for one engine instance.
// It is not safe for concurrent use.
type Model struct {
	width, height float64

	nodes     []*Node
	nodeIndex map[string]*Node
	edges     []*Edge
	edgeIndex map[string]*Edge
	dims      dimension.Set
	nodeDims  dimension.Set

	nextSlot    int
	initialized bool
	noise       opensimplex.Noise

	logger   *log.Logger
	diag     func(errors.Code, string)
	reported map[string]struct{}
}

// New creates an empty model for a viewport of the given size.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Model{
		width:     opts.Width,
		height:    opts.Height,
		nodeIndex: make(map[string]*Node),
		edgeIndex: make(map[string]*Edge),
		noise:     opensimplex.New(opts.Seed),
		logger:    opts.Logger,
		diag:      opts.OnDiagnostic,
		reported:  make(map[string]struct{}),
	}
}

// =============================================================================
// Accessors
// =============================================================================

// Initialized reports whether Initialize has run at least once.
func (m *Model) Initialized() bool { return m.initialized }

// Nodes returns the node records in input order. The slice is shared.
func (m *Model) Nodes() []*Node { return m.nodes }

// Edges returns the edge records in input order. The slice is shared.
func (m *Model) Edges() []*Edge { return m.edges }

// Node returns the node with the given id.
func (m *Model) Node(id string) (*Node, bool) {
	n, ok := m.nodeIndex[id]
	return n, ok
}

// Edge returns the edge with the given id.
func (m *Model) Edge(id string) (*Edge, bool) {
	e, ok := m.edgeIndex[id]
	return e, ok
}

// Dimensions returns the known dimension set as of the last extraction.
func (m *Model) Dimensions() dimension.Set { return m.dims }

// NodeDimensions returns the dimension names carried by nodes only. Forces
// and focus placement compare nodes over this set.
func (m *Model) NodeDimensions() dimension.Set { return m.nodeDims }

// Size returns the viewport size.
func (m *Model) Size() (width, height float64) { return m.width, m.height }

// Center returns the viewport center.
func (m *Model) Center() (x, y float64) { return m.width / 2, m.height / 2 }

// Resize changes the viewport size. Existing positions are kept.
func (m *Model) Resize(width, height float64) {
	m.width, m.height = width, height
}

// =============================================================================
// Initialize
// =============================================================================

// Initialize loads data into the model.
//
// The first call builds every record from scratch. Later calls keep the
// position and velocity of every node whose id is still present, refresh
// its label and dimensions, place new ids further along the spiral and
// drop ids that are gone. Edges are rebuilt by id, keeping selection.
// The dimension set is recomputed before returning.
func (m *Model) Initialize(data graph.GraphData) Diff {
	var diff Diff

	seen := make(map[string]struct{}, len(data.Nodes))
	nodes := make([]*Node, 0, len(data.Nodes))
	for i := range data.Nodes {
		in := &data.Nodes[i]
		if _, dup := seen[in.ID]; dup {
			m.report(errors.ErrCodeDataIntegrity, "dup-node:"+in.ID,
				fmt.Sprintf("duplicate node id %q ignored", in.ID))
			continue
		}
		seen[in.ID] = struct{}{}

		dims := m.sanitize("node "+in.ID, in.Dimensions)
		if n, ok := m.nodeIndex[in.ID]; ok {
			if m.refresh(n, in, dims) {
				diff.Updated = append(diff.Updated, n.ID)
			}
			nodes = append(nodes, n)
			continue
		}
		nodes = append(nodes, m.place(in, dims))
		diff.Added = append(diff.Added, in.ID)
	}
	for _, n := range m.nodes {
		if _, ok := seen[n.ID]; !ok {
			diff.Removed = append(diff.Removed, n.ID)
			delete(m.nodeIndex, n.ID)
		}
	}
	m.nodes = nodes
	for _, n := range nodes {
		m.nodeIndex[n.ID] = n
	}

	m.loadEdges(data.Edges, &diff)
	m.initialized = true
	m.ExtractDimensions()

	m.logger.Debug("model initialized",
		"nodes", len(m.nodes),
		"edges", len(m.edges),
		"added", len(diff.Added),
		"removed", len(diff.Removed),
		"updated", len(diff.Updated))
	return diff
}

// place creates a node record on the next spiral slot.
func (m *Model) place(in *graph.Node, dims dimension.Vector) *Node {
	slot := m.nextSlot
	m.nextSlot++

	n := &Node{
		ID:         in.ID,
		Label:      in.DisplayLabel(),
		Dimensions: dims,
		slot:       slot,
	}
	n.X, n.Y = m.SpiralPosition(slot)
	if x, y, ok := in.Position(); ok {
		n.X, n.Y = x, y
	}
	if in.IsFixed {
		n.Pin(n.X, n.Y)
		return n
	}
	n.VX, n.VY = m.initialVelocity(slot)
	return n
}

// refresh copies input attributes onto an existing node. Position and
// velocity are left alone except for pinned coordinates, which the input
// owns. It reports whether anything changed.
func (m *Model) refresh(n *Node, in *graph.Node, dims dimension.Vector) bool {
	changed := false
	if label := in.DisplayLabel(); label != n.Label {
		n.Label = label
		changed = true
	}
	if !dims.Equal(n.Dimensions) {
		n.Dimensions = dims
		changed = true
	}

	switch {
	case in.IsFixed:
		px, py := n.X, n.Y
		if n.Fixed {
			px, py = n.PinX, n.PinY
		}
		if x, y, ok := in.Position(); ok {
			px, py = x, y
		}
		if !n.Fixed || px != n.PinX || py != n.PinY {
			n.Fixed, n.PinX, n.PinY = true, px, py
			n.VX, n.VY = 0, 0
			changed = true
		}
	case n.Fixed:
		n.Fixed = false
		changed = true
	}
	return changed
}

func (m *Model) loadEdges(in []graph.Edge, diff *Diff) {
	occurrence := make(map[string]int)
	seen := make(map[string]struct{}, len(in))
	edges := make([]*Edge, 0, len(in))

	for i := range in {
		e := &in[i]
		id := e.ID
		if id == "" {
			pair := e.FromNodeID + "\x00" + e.ToNodeID
			id = DeriveEdgeID(e.FromNodeID, e.ToNodeID, occurrence[pair])
			occurrence[pair]++
		}
		if _, dup := seen[id]; dup {
			m.report(errors.ErrCodeDataIntegrity, "dup-edge:"+id,
				fmt.Sprintf("duplicate edge id %q ignored", id))
			continue
		}
		seen[id] = struct{}{}

		edge := &Edge{
			ID:         id,
			Source:     e.FromNodeID,
			Target:     e.ToNodeID,
			Strength:   e.StrengthOrDefault(),
			Dimensions: m.sanitize("edge "+id, e.Dimensions),
		}
		if old, ok := m.edgeIndex[id]; ok {
			edge.Selected = old.Selected
		} else {
			diff.EdgesAdded = append(diff.EdgesAdded, id)
		}
		edges = append(edges, edge)
	}

	for _, e := range m.edges {
		if _, ok := seen[e.ID]; !ok {
			diff.EdgesRemoved = append(diff.EdgesRemoved, e.ID)
		}
	}
	m.edges = edges
	m.edgeIndex = make(map[string]*Edge, len(edges))
	for _, e := range edges {
		m.edgeIndex[e.ID] = e
	}
}

// DeriveEdgeID returns the stable id given to an input edge that has none.
// occurrence distinguishes parallel edges between the same endpoints.
func DeriveEdgeID(source, target string, occurrence int) string {
	name := source + "\x00" + target + "\x00" + strconv.Itoa(occurrence)
	return uuid.NewSHA1(edgeNamespace, []byte(name)).String()
}

// =============================================================================
// Placement
// =============================================================================

// SpiralPosition returns the golden-angle spiral coordinate of slot i.
func (m *Model) SpiralPosition(i int) (x, y float64) {
	cx, cy := m.Center()
	r := SpiralScale * min(m.width, m.height) * math.Sqrt(float64(i+1))
	a := float64(i) * GoldenAngle
	return cx + r*math.Cos(a), cy + r*math.Sin(a)
}

func (m *Model) initialVelocity(slot int) (vx, vy float64) {
	s := float64(slot)
	vx = clampUnit(m.noise.Eval2(s+0.5, 0.25)) * MaxInitialSpeed
	vy = clampUnit(m.noise.Eval2(0.25, s+0.5)) * MaxInitialSpeed
	return vx, vy
}

func clampUnit(x float64) float64 {
	return max(-1, min(1, x))
}

// =============================================================================
// Dimensions
// =============================================================================

// ExtractDimensions recomputes the known dimension set from every node and
// edge and reports node dimensions that some nodes lack (those read as
// dimension.Default).
func (m *Model) ExtractDimensions() dimension.Set {
	var nodeDims dimension.Set
	var all dimension.Set
	for _, n := range m.nodes {
		all.Add(n.Dimensions.Names()...)
		nodeDims.Add(n.Dimensions.Names()...)
	}
	for _, e := range m.edges {
		all.Add(e.Dimensions.Names()...)
	}
	m.dims = all
	m.nodeDims = nodeDims

	for _, n := range m.nodes {
		if n.Dimensions.Len() == nodeDims.Len() {
			continue
		}
		for _, name := range nodeDims.Names() {
			if _, ok := n.Dimensions.Get(name); ok {
				continue
			}
			m.reportDebug(errors.ErrCodeDataIntegrity, "missing:"+n.ID+"\x00"+name,
				fmt.Sprintf("node %q has no %q dimension, using %v", n.ID, name, dimension.Default))
		}
	}
	return all
}

func (m *Model) sanitize(owner string, raw map[string]float64) dimension.Vector {
	for name, v := range raw {
		if _, ok := dimension.Sanitize(v); ok {
			continue
		}
		m.report(errors.ErrCodeDataIntegrity, "range:"+owner+"\x00"+name,
			fmt.Sprintf("%s dimension %q value %v outside [0,1], corrected", owner, name, v))
	}
	return dimension.FromMap(raw)
}

// =============================================================================
// Links
// =============================================================================

// Links resolves every edge to its endpoint nodes. Edges that reference an
// unknown node are skipped and reported once.
func (m *Model) Links() []Link {
	links := make([]Link, 0, len(m.edges))
	for _, e := range m.edges {
		src, ok1 := m.nodeIndex[e.Source]
		dst, ok2 := m.nodeIndex[e.Target]
		if !ok1 || !ok2 {
			m.report(errors.ErrCodeDataIntegrity, "dangling:"+e.ID+"\x00"+e.Source+"\x00"+e.Target,
				fmt.Sprintf("edge %q references missing node (%s -> %s), skipped", e.ID, e.Source, e.Target))
			continue
		}
		links = append(links, Link{Edge: e, Source: src, Target: dst})
	}
	return links
}

// =============================================================================
// Selection
// =============================================================================

// SelectNode marks the node selected and clears every other selection.
func (m *Model) SelectNode(id string) bool {
	n, ok := m.nodeIndex[id]
	if !ok {
		return false
	}
	m.ClearSelection()
	n.Selected = true
	return true
}

// SelectEdge marks the edge selected and clears every other selection.
func (m *Model) SelectEdge(id string) bool {
	e, ok := m.edgeIndex[id]
	if !ok {
		return false
	}
	m.ClearSelection()
	e.Selected = true
	return true
}

// ClearSelection deselects every node and edge.
func (m *Model) ClearSelection() {
	for _, n := range m.nodes {
		n.Selected = false
	}
	for _, e := range m.edges {
		e.Selected = false
	}
}

// =============================================================================
// Diagnostics
// =============================================================================

func (m *Model) report(code errors.Code, key, detail string) {
	if !m.once(key) {
		return
	}
	m.logger.Warn(detail, "code", code)
	if m.diag != nil {
		m.diag(code, detail)
	}
}

func (m *Model) reportDebug(code errors.Code, key, detail string) {
	if !m.once(key) {
		return
	}
	m.logger.Debug(detail, "code", code)
	if m.diag != nil {
		m.diag(code, detail)
	}
}

func (m *Model) once(key string) bool {
	if _, ok := m.reported[key]; ok {
		return false
	}
	m.reported[key] = struct{}{}
	return true
}
