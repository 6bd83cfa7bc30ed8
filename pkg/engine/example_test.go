package engine_test

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dimgraph/pkg/core/anim"
	"github.com/matzehuels/dimgraph/pkg/core/physics"
	"github.com/matzehuels/dimgraph/pkg/engine"
	"github.com/matzehuels/dimgraph/pkg/graph"
)

func Example() {
	sched := anim.NewManualScheduler(time.Unix(0, 0), 0)
	e := engine.New(engine.Options{
		Width:     800,
		Height:    600,
		Scheduler: sched,
		Logger:    log.New(io.Discard),
	})
	e.On(func(ev engine.Event) {
		if sc, ok := ev.(engine.StateChanged); ok {
			fmt.Println(sc.From, "->", sc.To)
		}
	})

	data := graph.GraphData{
		Nodes: []graph.Node{
			{ID: "a", IsFixed: true, X: graph.Float(100), Y: graph.Float(100)},
			{ID: "b", IsFixed: true, X: graph.Float(300), Y: graph.Float(100)},
		},
		Edges: []graph.Edge{{FromNodeID: "a", ToNodeID: "b"}},
	}
	e.Start(data, physics.ClusteringConfig{})
	sched.RunUntilIdle(0)

	snap := e.Snapshot()
	fmt.Println(len(snap.Nodes), "nodes,", len(snap.Edges), "edge, converged:", snap.Converged)
	// Output:
	// uninitialized -> simulating
	// simulating -> idle
	// 2 nodes, 1 edge, converged: true
}

func ExampleEngine_CenterOnNode() {
	sched := anim.NewManualScheduler(time.Unix(0, 0), 0)
	e := engine.New(engine.Options{Scheduler: sched, Logger: log.New(io.Discard)})
	e.Start(graph.GraphData{
		Nodes: []graph.Node{{ID: "hub", IsFixed: true, X: graph.Float(200), Y: graph.Float(100)}},
	}, physics.ClusteringConfig{})
	sched.RunUntilIdle(0)

	e.CenterOnNode("hub")
	sched.RunUntilIdle(0)
	fmt.Println(e.Transform())
	// Output:
	// translate(100,150) scale(1.5)
}
