package pipeline

// State tracks the orchestrator through one run:
//
//	Idle -> Opened -> Running -> (Completed | Interrupted | Failed) -> Closed
//
// Completed and Interrupted are non-error terminal states; Failed carries the
// triggering cause. Resources are released on the way to Closed regardless of
// which terminal state was reached.
type State int

const (
	StateIdle State = iota
	StateOpened
	StateRunning
	StateCompleted
	StateInterrupted
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpened:
		return "opened"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateInterrupted:
		return "interrupted"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is one of the loop-exit states.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateInterrupted, StateFailed:
		return true
	}
	return false
}
