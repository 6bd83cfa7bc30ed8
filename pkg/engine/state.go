package engine

// State is a lifecycle state.
type State int

// Lifecycle states.
const (
	StateUninitialized State = iota
	StateSimulating
	StateIdle
	StateConfigurationUpdated
	StateFocusChanged
	StateFitRequested
	StateAnimating
	StateDestroyed
)

var stateNames = [...]string{
	StateUninitialized:        "uninitialized",
	StateSimulating:           "simulating",
	StateIdle:                 "idle",
	StateConfigurationUpdated: "configuration-updated",
	StateFocusChanged:         "focus-changed",
	StateFitRequested:         "fit-requested",
	StateAnimating:            "animating",
	StateDestroyed:            "destroyed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// =============================================================================
// Events
// =============================================================================

// Event is emitted synchronously to every listener.
type Event interface {
	event()
}

// NodeClicked reports a click on a node.
type NodeClicked struct{ NodeID string }

// EdgeClicked reports a click on an edge.
type EdgeClicked struct{ EdgeID string }

// TransformChanged reports a new viewport transform, formatted as an SVG
// transform attribute.
type TransformChanged struct{ Transform string }

// StateChanged reports a lifecycle transition.
type StateChanged struct{ From, To State }

func (NodeClicked) event()      {}
func (EdgeClicked) event()      {}
func (TransformChanged) event() {}
func (StateChanged) event()     {}

// Listener receives events. Listeners must not call back into the engine.
type Listener func(Event)
