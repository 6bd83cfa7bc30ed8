package engine

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/dimgraph/pkg/core/anim"
	"github.com/matzehuels/dimgraph/pkg/core/model"
	"github.com/matzehuels/dimgraph/pkg/core/physics"
	"github.com/matzehuels/dimgraph/pkg/core/style"
	"github.com/matzehuels/dimgraph/pkg/core/viewport"
	"github.com/matzehuels/dimgraph/pkg/errors"
	"github.com/matzehuels/dimgraph/pkg/observability"
)

// Default viewport size used when Options leaves it unset.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// Options configures an Engine.
type Options struct {
	Width, Height float64

	// Parameters for the simulator. Zero uses physics.DefaultParameters.
	Parameters physics.Parameters
	Mapping    style.Mapping

	// Scheduler delivers frames. Nil uses a ManualScheduler starting now,
	// which the host must then advance itself.
	Scheduler anim.FrameScheduler

	NodeDuration      time.Duration // Zero uses anim.DefaultNodeDuration
	TransformDuration time.Duration // Zero uses anim.DefaultTransformDuration

	// Seed for the initial velocity noise.
	Seed   int64
	Logger *log.Logger
}

// Engine is one layout engine instance.
// It is not safe for concurrent use.
type Engine struct {
	id     string
	logger *log.Logger
	hooks  observability.EngineHooks

	scheduler      anim.FrameScheduler
	frame          anim.FrameFunc
	frameRequested bool

	model   *model.Model
	sim     *physics.Simulator
	stylist style.Stylist
	view    *viewport.Controller

	state        State
	queue        []command
	nodeAnim     *anim.NodeTransition
	nodeDuration time.Duration
	press        *press

	listeners []Listener
}

// New creates an engine in the Uninitialized state.
func New(opts Options) *Engine {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = anim.NewManualScheduler(time.Now(), 0)
	}
	if opts.NodeDuration <= 0 {
		opts.NodeDuration = anim.DefaultNodeDuration
	}

	e := &Engine{
		id:           uuid.NewString(),
		hooks:        observability.Engine(),
		scheduler:    opts.Scheduler,
		stylist:      style.New(opts.Mapping),
		nodeDuration: opts.NodeDuration,
	}
	e.logger = opts.Logger.With("engine", e.id[:8])
	e.frame = e.Step

	e.model = model.New(model.Options{
		Width:        opts.Width,
		Height:       opts.Height,
		Seed:         opts.Seed,
		Logger:       e.logger,
		OnDiagnostic: e.diagnostic,
	})
	e.sim = physics.New(e.model, physics.Options{
		Parameters:   opts.Parameters,
		Radius:       e.stylist.Radius,
		Logger:       e.logger,
		OnDiagnostic: e.diagnostic,
	})
	e.view = viewport.New(opts.Width, opts.Height, viewport.Options{
		Duration: opts.TransformDuration,
		OnChange: e.transformChanged,
		Logger:   e.logger,
	})
	return e
}

// ID returns the instance id.
func (e *Engine) ID() string { return e.id }

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Model returns the engine's model. Callers must treat it as read-only.
func (e *Engine) Model() *model.Model { return e.model }

// Transform returns the current viewport transform.
func (e *Engine) Transform() viewport.Transform { return e.view.Transform() }

// Parameters returns the current simulation parameters.
func (e *Engine) Parameters() physics.Parameters { return e.sim.Parameters() }

// Focus returns the focus node id, or "".
func (e *Engine) Focus() string { return e.sim.Focus() }

// Iteration returns the iteration count of the current simulation run.
func (e *Engine) Iteration() int { return e.sim.Iteration() }

// Animating reports whether a node or viewport animation is running.
func (e *Engine) Animating() bool {
	return e.nodeAnim != nil || e.view.Animating()
}

// On registers a listener for every subsequent event.
func (e *Engine) On(fn Listener) {
	if fn != nil {
		e.listeners = append(e.listeners, fn)
	}
}

// Resize changes the viewport size. Node positions are kept; the next
// simulation steps re-center around the new middle.
func (e *Engine) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	e.model.Resize(width, height)
	e.view.Resize(width, height)
}

// =============================================================================
// Internal plumbing
// =============================================================================

func (e *Engine) emit(ev Event) {
	for _, fn := range e.listeners {
		fn(ev)
	}
}

func (e *Engine) setState(to State) {
	from := e.state
	if from == to {
		return
	}
	e.state = to
	e.logger.Debug("state", "from", from, "to", to)
	e.hooks.OnStateChange(e.id, from.String(), to.String())
	e.emit(StateChanged{From: from, To: to})
}

func (e *Engine) transformChanged(t viewport.Transform) {
	e.emit(TransformChanged{Transform: t.String()})
}

func (e *Engine) diagnostic(code errors.Code, detail string) {
	e.hooks.OnDiagnostic(e.id, string(code), detail)
}

// unavailable logs a call that arrived before Start or after Destroy.
func (e *Engine) unavailable(op string) bool {
	if e.state != StateUninitialized && e.state != StateDestroyed {
		return false
	}
	e.logger.Debug("ignored, engine not running", "op", op, "state", e.state, "code", errors.ErrCodeHostUnavailable)
	e.diagnostic(errors.ErrCodeHostUnavailable, op+" called in state "+e.state.String())
	return true
}

func (e *Engine) requestFrame() {
	if e.frameRequested || e.state == StateDestroyed {
		return
	}
	e.frameRequested = true
	e.scheduler.RequestFrame(e.frame)
}

func (e *Engine) needsFrame() bool {
	return e.sim.Running() || e.Animating() || len(e.queue) > 0
}
