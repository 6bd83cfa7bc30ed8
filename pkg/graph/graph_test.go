package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/dimgraph/pkg/errors"
)

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantCode  errors.Code
		check     func(t *testing.T, g GraphData)
	}{
		{
			name:  "Empty",
			input: `{"nodes":[],"edges":[]}`,
		},
		{
			name: "Full",
			input: `{
				"nodes": [
					{"id": "a", "label": "Alpha", "dimensions": {"influence": 0.8}},
					{"id": "b", "isFixed": true, "x": 10, "y": -5}
				],
				"edges": [{"id": "ab", "fromNodeId": "a", "toNodeId": "b", "strength": 0.25}]
			}`,
			wantNodes: 2,
			wantEdges: 1,
			check: func(t *testing.T, g GraphData) {
				if g.Nodes[0].Dimensions["influence"] != 0.8 {
					t.Errorf("influence = %v, want 0.8", g.Nodes[0].Dimensions["influence"])
				}
				if !g.Nodes[1].IsFixed {
					t.Error("node b should be fixed")
				}
				x, y, ok := g.Nodes[1].Position()
				if !ok || x != 10 || y != -5 {
					t.Errorf("Position() = (%v, %v, %v), want (10, -5, true)", x, y, ok)
				}
				if got := g.Edges[0].StrengthOrDefault(); got != 0.25 {
					t.Errorf("strength = %v, want 0.25", got)
				}
			},
		},
		{
			name:     "MissingID",
			input:    `{"nodes":[{"label":"x"}]}`,
			wantCode: errors.ErrCodeInvalidID,
		},
		{
			name:     "Malformed",
			input:    `{"nodes":`,
			wantCode: errors.ErrCodeInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("ReadGraph() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGraph() error: %v", err)
			}
			if len(g.Nodes) != tt.wantNodes || len(g.Edges) != tt.wantEdges {
				t.Errorf("got %d nodes, %d edges; want %d, %d", len(g.Nodes), len(g.Edges), tt.wantNodes, tt.wantEdges)
			}
			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

func TestNodeHelpers(t *testing.T) {
	n := Node{ID: "pkg"}
	if n.DisplayLabel() != "pkg" {
		t.Errorf("DisplayLabel() = %q, want pkg", n.DisplayLabel())
	}
	n.Label = "Package"
	if n.DisplayLabel() != "Package" {
		t.Errorf("DisplayLabel() = %q, want Package", n.DisplayLabel())
	}
	n.X = Float(1)
	if _, _, ok := n.Position(); ok {
		t.Error("Position() with only x set should not be ok")
	}
}

func TestEdgeStrengthDefault(t *testing.T) {
	tests := []struct {
		name     string
		strength *float64
		want     float64
	}{
		{"unset", nil, DefaultStrength},
		{"set", Float(0.4), 0.4},
		{"zero", Float(0), 0},
		{"negative", Float(-1), DefaultStrength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Edge{Strength: tt.strength}
			if got := e.StrengthOrDefault(); got != tt.want {
				t.Errorf("StrengthOrDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")

	in := GraphData{
		Nodes: []Node{
			{ID: "a", Dimensions: map[string]float64{"era": 0.1}},
			{ID: "b", IsFixed: true, X: Float(3), Y: Float(4)},
		},
		Edges: []Edge{{ID: "e", FromNodeID: "a", ToNodeID: "b"}},
	}
	if err := WriteGraphFile(in, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}

	out, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if len(out.Nodes) != 2 || out.Nodes[0].Dimensions["era"] != 0.1 {
		t.Errorf("round trip lost data: %+v", out)
	}
	if x, y, ok := out.Nodes[1].Position(); !ok || x != 3 || y != 4 {
		t.Errorf("fixed position = (%v, %v, %v)", x, y, ok)
	}
}

func TestReadGraphFileMissing(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestSnapshot(t *testing.T) {
	s := Snapshot{
		Transform: Transform{TranslateX: 10, TranslateY: -2.5, Scale: 1.5},
		Nodes: []StyledNode{
			{ID: "a", X: 0, Y: 0, Radius: 10},
			{ID: "b", X: 100, Y: 50, Radius: 5},
		},
	}

	if got := s.Transform.String(); got != "translate(10,-2.5) scale(1.5)" {
		t.Errorf("Transform.String() = %q", got)
	}

	minX, minY, maxX, maxY, ok := s.Bounds()
	if !ok || minX != -10 || minY != -10 || maxX != 105 || maxY != 55 {
		t.Errorf("Bounds() = (%v, %v, %v, %v, %v)", minX, minY, maxX, maxY, ok)
	}
	if _, _, _, _, ok := (&Snapshot{}).Bounds(); ok {
		t.Error("empty snapshot should have no bounds")
	}
	if n, ok := s.Node("b"); !ok || n.X != 100 {
		t.Errorf("Node(b) = %+v, %v", n, ok)
	}

	var buf bytes.Buffer
	if err := WriteSnapshot(s, &buf); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	back, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if len(back.Nodes) != 2 || back.Transform.Scale != 1.5 {
		t.Errorf("ReadSnapshot = %+v", back)
	}
}

func TestSnapshotFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	if err := WriteSnapshotFile(Snapshot{Width: 800, Height: 600}, path); err != nil {
		t.Fatalf("WriteSnapshotFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not written: %v", err)
	}
	s, err := ReadSnapshotFile(path)
	if err != nil {
		t.Fatalf("ReadSnapshotFile: %v", err)
	}
	if s.Width != 800 || s.Height != 600 {
		t.Errorf("size = %vx%v", s.Width, s.Height)
	}
}
