package engine

import (
	"github.com/matzehuels/dimgraph/pkg/graph"
)

// Snapshot returns the styled layout at this instant.
func (e *Engine) Snapshot() graph.Snapshot {
	width, height := e.view.Size()
	focus := e.sim.Focus()
	snap := graph.Snapshot{
		ID:         e.id,
		Width:      width,
		Height:     height,
		Transform:  graph.Transform(e.view.Transform()),
		State:      e.state.String(),
		Iterations: e.sim.Iteration(),
		Energy:     e.sim.Energy(),
		Converged:  e.sim.Converged(),
		FocusID:    focus,
		Dimensions: e.model.Dimensions().Names(),
	}

	nodes := e.model.Nodes()
	snap.Nodes = make([]graph.StyledNode, 0, len(nodes))
	for _, n := range nodes {
		st := e.stylist.Node(n.Dimensions, n.Label, n.Selected)
		snap.Nodes = append(snap.Nodes, graph.StyledNode{
			ID:         n.ID,
			Label:      st.Label,
			FullLabel:  n.Label,
			X:          n.X,
			Y:          n.Y,
			Size:       st.Size,
			Radius:     st.Radius,
			Shape:      string(st.Shape),
			Fill:       st.Color.Hex(),
			FillHSL:    st.Color.CSS(),
			TextColor:  st.TextColor,
			Stroke:     st.Stroke,
			Glow:       st.Glow,
			Fixed:      n.Fixed,
			Selected:   n.Selected,
			Focused:    focus != "" && n.ID == focus,
			Dimensions: n.Dimensions.Map(),
		})
	}

	links := e.model.Links()
	snap.Edges = make([]graph.StyledEdge, 0, len(links))
	for _, l := range links {
		st := e.stylist.Edge(l.Edge.Dimensions, l.Edge.Selected)
		snap.Edges = append(snap.Edges, graph.StyledEdge{
			ID:        l.Edge.ID,
			Source:    l.Source.ID,
			Target:    l.Target.ID,
			X1:        l.Source.X,
			Y1:        l.Source.Y,
			X2:        l.Target.X,
			Y2:        l.Target.Y,
			Strength:  l.Edge.Strength,
			Thickness: st.Thickness,
			Opacity:   st.Opacity,
			Stroke:    st.Stroke,
			Selected:  l.Edge.Selected,
		})
	}
	return snap
}
