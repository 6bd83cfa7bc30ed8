package engine

import "time"

// Step runs one frame at time now. It is the FrameFunc handed to the
// scheduler and is exported so hosts that drive frames themselves can call
// it directly.
//
// A frame applies queued commands, advances the node transition, then the
// viewport animation, then one simulation iteration, and requests another
// frame while any of them has work left.
func (e *Engine) Step(now time.Time) {
	e.frameRequested = false
	if e.state == StateDestroyed || e.state == StateUninitialized {
		return
	}

	e.drain(now)

	if e.nodeAnim != nil && e.nodeAnim.Advance(now) {
		e.nodeAnim = nil
		e.logger.Debug("focus transition done", "focus", e.sim.Focus())
		e.sim.Restart()
		e.hooks.OnStart(e.id, len(e.model.Nodes()), len(e.model.Edges()))
		if !e.view.Animating() {
			e.setState(StateSimulating)
		}
	}

	if e.view.Animating() && !e.view.Advance(now) && e.nodeAnim == nil {
		e.setState(e.settledState())
	}

	if e.nodeAnim == nil && e.sim.Running() && !e.sim.Step() {
		e.settled()
	}

	if e.needsFrame() {
		e.requestFrame()
	}
}

func (e *Engine) settled() {
	e.hooks.OnSettled(e.id, e.sim.Iteration(), e.sim.Energy(), e.sim.Converged())
	e.logger.Info("simulation settled",
		"iterations", e.sim.Iteration(),
		"energy", e.sim.Energy(),
		"converged", e.sim.Converged(),
		"corrections", e.sim.Corrections())
	if e.state == StateSimulating {
		e.setState(StateIdle)
	}
}
