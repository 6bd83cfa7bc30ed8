package graph_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/dimgraph/pkg/graph"
)

func ExampleWriteGraph() {
	g := graph.GraphData{
		Nodes: []graph.Node{
			{ID: "a", Label: "Alpha", Dimensions: map[string]float64{"influence": 0.8}},
			{ID: "b", IsFixed: true, X: graph.Float(100), Y: graph.Float(50)},
		},
		Edges: []graph.Edge{
			{ID: "ab", FromNodeID: "a", ToNodeID: "b"},
		},
	}

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "a",
	//       "label": "Alpha",
	//       "dimensions": {
	//         "influence": 0.8
	//       }
	//     },
	//     {
	//       "id": "b",
	//       "isFixed": true,
	//       "x": 100,
	//       "y": 50
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "id": "ab",
	//       "fromNodeId": "a",
	//       "toNodeId": "b"
	//     }
	//   ]
	// }
}

func ExampleReadGraph() {
	input := `{
		"nodes": [{"id": "a"}, {"id": "b", "dimensions": {"era": 0.3}}],
		"edges": [{"fromNodeId": "a", "toNodeId": "b", "strength": 0.5}]
	}`

	g, err := graph.ReadGraph(strings.NewReader(input))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("nodes:", len(g.Nodes))
	fmt.Println("edge strength:", g.Edges[0].StrengthOrDefault())
	fmt.Println("era of b:", g.Nodes[1].Dimensions["era"])
	// Output:
	// nodes: 2
	// edge strength: 0.5
	// era of b: 0.3
}

func ExampleTransform_String() {
	t := graph.Transform{TranslateX: 40, TranslateY: 12.5, Scale: 1.5}
	fmt.Println(t)
	// Output: translate(40,12.5) scale(1.5)
}
