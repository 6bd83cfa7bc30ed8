package engine

import (
	"time"

	"github.com/matzehuels/dimgraph/pkg/core/anim"
	"github.com/matzehuels/dimgraph/pkg/core/physics"
	"github.com/matzehuels/dimgraph/pkg/core/viewport"
	"github.com/matzehuels/dimgraph/pkg/errors"
	"github.com/matzehuels/dimgraph/pkg/graph"
)

// command is a queued operation applied at the start of a frame.
type command struct {
	name string
	run  func(now time.Time)
}

func (e *Engine) enqueue(name string, run func(now time.Time)) {
	if e.unavailable(name) {
		return
	}
	e.queue = append(e.queue, command{name: name, run: run})
	e.requestFrame()
}

// drain applies queued commands until one starts an animation.
func (e *Engine) drain(now time.Time) {
	for len(e.queue) > 0 && !e.Animating() && e.state != StateDestroyed {
		cmd := e.queue[0]
		e.queue = e.queue[1:]
		e.logger.Debug("apply", "command", cmd.name)
		cmd.run(now)
	}
}

// settledState is where the engine rests once nothing is animating.
func (e *Engine) settledState() State {
	if e.sim.Running() {
		return StateSimulating
	}
	return StateIdle
}

// =============================================================================
// Start
// =============================================================================

// Start loads data and starts the simulation. It is accepted only in the
// Uninitialized and Idle states; anywhere else it is a logged no-op and
// returns false, so two simulation loops never run at once.
//
// An invalid clustering configuration is logged and treated as disabled.
func (e *Engine) Start(data graph.GraphData, clustering physics.ClusteringConfig) bool {
	if e.state == StateDestroyed {
		e.unavailable("start")
		return false
	}
	if e.state != StateUninitialized && e.state != StateIdle {
		e.logger.Warn("start ignored", "state", e.state, "code", errors.ErrCodeConcurrentStart)
		e.diagnostic(errors.ErrCodeConcurrentStart, "start called in state "+e.state.String())
		return false
	}

	e.model.Initialize(data)
	e.sim.SetClustering(e.checkClustering(clustering))
	e.sim.Restart()
	e.setState(StateSimulating)
	e.hooks.OnStart(e.id, len(e.model.Nodes()), len(e.model.Edges()))
	e.logger.Info("simulation started",
		"nodes", len(e.model.Nodes()),
		"edges", len(e.model.Edges()),
		"dimensions", e.model.Dimensions().Len())
	e.requestFrame()
	return true
}

func (e *Engine) checkClustering(c physics.ClusteringConfig) physics.ClusteringConfig {
	if err := c.Validate(); err != nil {
		e.logger.Warn("clustering disabled", "err", err)
		return physics.ClusteringConfig{}
	}
	return c
}

// =============================================================================
// Queued Commands
// =============================================================================

// UpdateConfiguration refreshes node and edge attributes in place. Existing
// nodes keep position and velocity. The simulation restarts only when the
// clustering configuration changed or nodes were added or removed.
func (e *Engine) UpdateConfiguration(data graph.GraphData, clustering physics.ClusteringConfig) {
	e.enqueue("update-configuration", func(time.Time) {
		e.setState(StateConfigurationUpdated)
		diff := e.model.Initialize(data)

		next := e.checkClustering(clustering).WithDefaults()
		clusteringChanged := next != e.sim.Clustering()
		e.sim.SetClustering(next)

		if clusteringChanged || diff.MembershipChanged() {
			e.logger.Debug("restarting simulation",
				"clustering_changed", clusteringChanged,
				"added", len(diff.Added),
				"removed", len(diff.Removed))
			e.sim.Restart()
			e.hooks.OnStart(e.id, len(e.model.Nodes()), len(e.model.Edges()))
		}
		e.setState(e.settledState())
	})
}

// SetFocusNode makes id the focus node. Every unfixed node animates to its
// focus target, then the simulation resumes around the new focus.
func (e *Engine) SetFocusNode(id string) {
	e.enqueue("set-focus", func(time.Time) {
		if _, ok := e.model.Node(id); !ok {
			e.logger.Warn("focus ignored, unknown node", "node", id, "code", errors.ErrCodeNodeNotFound)
			return
		}
		e.setState(StateFocusChanged)
		e.sim.SetFocus(id)
		e.sim.Stop()

		points := physics.FocusTargets(e.model, id, e.model.NodeDimensions())
		targets := make(map[string]anim.Target, len(points))
		for nodeID, p := range points {
			targets[nodeID] = anim.Target{X: p.X, Y: p.Y}
		}
		e.nodeAnim = anim.NewNodeTransition(e.model.Nodes(), targets, e.nodeDuration)
		e.setState(StateAnimating)
	})
}

// ClearFocus removes the focus node and resumes the simulation with the
// centering force.
func (e *Engine) ClearFocus() {
	e.enqueue("clear-focus", func(time.Time) {
		if e.sim.Focus() == "" {
			return
		}
		e.sim.SetFocus("")
		e.sim.Restart()
		e.hooks.OnStart(e.id, len(e.model.Nodes()), len(e.model.Edges()))
		e.setState(StateSimulating)
	})
}

// FitToView animates the viewport to show every node. It clears the focus
// node.
func (e *Engine) FitToView() {
	e.enqueue("fit-to-view", func(time.Time) {
		e.setState(StateFitRequested)
		e.sim.SetFocus("")
		if _, ok := e.view.FitToView(e.shapes()); !ok {
			e.setState(e.settledState())
			return
		}
		e.setState(StateAnimating)
	})
}

// CenterOnNode animates the viewport to center the node, zooming in.
func (e *Engine) CenterOnNode(id string) {
	e.enqueue("center-on-node", func(time.Time) {
		n, ok := e.model.Node(id)
		if !ok {
			e.logger.Warn("center ignored, unknown node", "node", id, "code", errors.ErrCodeNodeNotFound)
			return
		}
		e.view.CenterOn(n.X, n.Y)
		e.setState(StateAnimating)
	})
}

func (e *Engine) shapes() []viewport.Shape {
	nodes := e.model.Nodes()
	shapes := make([]viewport.Shape, len(nodes))
	for i, n := range nodes {
		shapes[i] = viewport.Shape{X: n.X, Y: n.Y, R: e.stylist.Radius(n.Dimensions)}
	}
	return shapes
}

// =============================================================================
// Immediate Operations
// =============================================================================

// SetParameters replaces the simulation parameters without restarting.
// Invalid parameters are rejected; valid but risky ones are logged.
func (e *Engine) SetParameters(p physics.Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for _, w := range p.Warnings() {
		e.logger.Warn("parameters", "warning", w)
	}
	e.sim.SetParameters(p)
	return nil
}

// Destroy stops the engine. Pending frames become no-ops and later calls
// are ignored. Destroy is idempotent.
func (e *Engine) Destroy() {
	if e.state == StateDestroyed {
		return
	}
	e.queue = nil
	e.nodeAnim = nil
	e.press = nil
	e.sim.Stop()
	e.setState(StateDestroyed)
	e.listeners = nil
	e.logger.Debug("destroyed")
}
