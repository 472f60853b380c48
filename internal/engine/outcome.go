package engine

import (
	"fmt"

	"github.com/Garsondee/Claimline/internal/geom"
)

// Outcome is how a level attempt ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLoss
	OutcomeGameOver
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "level_cleared"
	case OutcomeLoss:
		return "life_lost"
	case OutcomeGameOver:
		return "game_over"
	case OutcomeNone:
		return "none"
	default:
		return "unknown"
	}
}

// State is the session's run state.
type State int

const (
	StatePlaying State = iota
	StatePausedManual
	StatePausedForOutcome
	StateOver
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePausedManual:
		return "paused"
	case StatePausedForOutcome:
		return "outcome"
	case StateOver:
		return "over"
	default:
		return "unknown"
	}
}

// EventKind names something that happened during a tick.
type EventKind int

const (
	EventTraceStarted EventKind = iota
	EventCapture
	EventTraceAborted
	EventQixTrapped
	EventSparkySpawned
	EventSparkyContact
	EventBoostStarted
	EventBoostExpired
	EventOutcome
	EventLevelStarted
	EventPaused
	EventResumed
	EventRestart
)

func (k EventKind) String() string {
	switch k {
	case EventTraceStarted:
		return "trace_started"
	case EventCapture:
		return "capture"
	case EventTraceAborted:
		return "trace_aborted"
	case EventQixTrapped:
		return "qix_trapped"
	case EventSparkySpawned:
		return "sparky_spawned"
	case EventSparkyContact:
		return "sparky_contact"
	case EventBoostStarted:
		return "boost_started"
	case EventBoostExpired:
		return "boost_expired"
	case EventOutcome:
		return "outcome"
	case EventLevelStarted:
		return "level_started"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Event is one notable state change.
type Event struct {
	Tick    int
	Kind    EventKind
	At      geom.Point
	Value   float64 // capture percent, level number, etc.
	Outcome Outcome // set for EventOutcome
}

func (e Event) String() string {
	if e.Kind == EventOutcome {
		return fmt.Sprintf("[T=%04d] %s %s", e.Tick, e.Kind, e.Outcome)
	}
	return fmt.Sprintf("[T=%04d] %s (%.0f,%.0f) %.2f", e.Tick, e.Kind, e.At.X, e.At.Y, e.Value)
}

// TickResult is what one Step produced.
type TickResult struct {
	Tick    int
	State   State
	Move    MoveResult
	Outcome Outcome // set on the tick an outcome is decided
	Events  []Event
}

// Has reports whether the result carries an event of kind k.
func (r TickResult) Has(k EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == k {
			return true
		}
	}
	return false
}
