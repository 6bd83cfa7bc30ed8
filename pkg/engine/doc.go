// Package engine is the host-facing API of the layout engine.
//
// An [Engine] is an explicit instance handle that owns one model,
// simulator, stylist and viewport. Hosts create it with [New], feed it
// graph data with [Engine.Start], and drive it by delivering frames through
// the [anim.FrameScheduler] passed in [Options]. The engine does at most one
// simulation iteration per frame and asks for another frame only while it
// has work left.
//
// # Lifecycle
//
//	Uninitialized ──Start──▶ Simulating ──converged──▶ Idle
//	Idle ──Start──▶ Simulating
//	Simulating|Idle ──update──▶ ConfigurationUpdated ──▶ Simulating|Idle
//	Simulating|Idle ──focus──▶ FocusChanged ──▶ Animating ──▶ Simulating
//	Simulating|Idle ──fit──▶ FitRequested ──▶ Animating ──▶ Idle|Simulating
//	any ──Destroy──▶ Destroyed
//
// Every transition is reported as a [StateChanged] event.
//
// # Commands
//
// UpdateConfiguration, SetFocusNode, ClearFocus, FitToView and CenterOnNode
// are queued and applied at the start of the next frame in call order.
// While a node or viewport animation runs the queue is held, so commands
// never interleave with an animation in progress. Start and Destroy take
// effect immediately.
//
// # Concurrency
//
// The engine is single-threaded. Every method, including the frame
// callback, must be called from the host's scheduling goroutine.
//
// # Example
//
//	sched := anim.NewManualScheduler(time.Now(), 0)
//	e := engine.New(engine.Options{Width: 800, Height: 600, Scheduler: sched})
//	e.Start(data, physics.ClusteringConfig{})
//	sched.RunUntilIdle(0)
//	snap := e.Snapshot()
package engine
