// Package anim provides eased, time-boxed interpolation and the frame
// scheduling abstraction the engine runs on.
//
// # Easing
//
// All transitions use cubic ease-in-out:
//
//	t < 0.5 ? 4t³ : 1 - (-2t+2)³/2
//
// # Transitions
//
// A [Tween] maps wall-clock time onto eased progress in [0, 1]. It starts
// on the first frame it sees, so a transition queued between frames does
// not skip ahead. [NodeTransition] uses a tween to move a set of nodes to
// target positions, writing coordinates directly and zeroing velocities.
//
// # Scheduling
//
// The engine never loops on its own. It asks a [FrameScheduler] for the
// next frame and does one unit of work per callback. Hosts provide the
// scheduler: a UI event loop, a terminal tick, or [ManualScheduler] for
// headless runs and tests, which advances a virtual clock one frame at a
// time.
package anim
