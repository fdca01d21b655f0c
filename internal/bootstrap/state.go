package bootstrap

import "sync/atomic"

// State is a bootstrap lifecycle state.
type State int32

// Lifecycle states, in the only order a Service moves through them.
const (
	StateNotStarted State = iota
	StateStarting
	StateListening
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateStarting:
		return "starting"
	case StateListening:
		return "listening"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// stateMachine only moves forward; every transition is a compare-and-swap so
// concurrent callers cannot both win the same edge.
type stateMachine struct {
	current atomic.Int32
	observe func(State)
}

func (m *stateMachine) load() State {
	return State(m.current.Load())
}

// transition moves from -> to and reports whether this caller made the move.
func (m *stateMachine) transition(from, to State) bool {
	if !allowedTransition(from, to) {
		return false
	}
	if !m.current.CompareAndSwap(int32(from), int32(to)) {
		return false
	}
	if m.observe != nil {
		m.observe(to)
	}
	return true
}

func allowedTransition(from, to State) bool {
	switch from {
	case StateNotStarted:
		return to == StateStarting
	case StateStarting:
		return to == StateListening || to == StateStopped
	case StateListening:
		return to == StateStopping || to == StateStopped
	case StateStopping:
		return to == StateStopped
	default:
		return false
	}
}
