package spacedrep

import (
	"fmt"
	"time"
)

// State is the scheduling state embedded in every problem record.
type State struct {
	MasteryStage         int       `json:"mastery_stage"`
	IntervalDays         int       `json:"interval_days"`
	ConsecutiveSuccesses int       `json:"consecutive_successes"`
	NextDueDate          time.Time `json:"next_due_date"`
	LastOutcome          Outcome   `json:"last_outcome,omitempty"`
	LastAttemptedAt      time.Time `json:"last_attempted_at,omitzero"`
}

// NewState returns the state for a problem created at createdAt.
// The problem becomes due one day later.
func NewState(createdAt time.Time) State {
	return State{
		MasteryStage: 0,
		IntervalDays: Ladder[0],
		NextDueDate:  createdAt.AddDate(0, 0, Ladder[0]),
	}
}

// Validate reports ErrCorruptState if s violates the stage or interval bounds.
func (s State) Validate() error {
	if s.MasteryStage < 0 || s.MasteryStage > MaxStage {
		return fmt.Errorf("%w: mastery stage %d outside [0,%d]", ErrCorruptState, s.MasteryStage, MaxStage)
	}
	if s.IntervalDays < 1 {
		return fmt.Errorf("%w: interval %d days", ErrCorruptState, s.IntervalDays)
	}
	return nil
}

// Apply computes the state that follows recording outcome at now.
//
// PASS, SHAKY, FAIL and SKIP schedule the next review relative to now and
// stamp LastOutcome/LastAttemptedAt. POSTPONE only slides the existing due
// date forward by one day. On error the input state is returned unchanged.
func Apply(s State, outcome Outcome, now time.Time) (State, error) {
	if err := s.Validate(); err != nil {
		return s, err
	}

	next := s
	switch outcome {
	case Pass:
		next.MasteryStage = min(s.MasteryStage+1, MaxStage)
		next.ConsecutiveSuccesses = s.ConsecutiveSuccesses + 1
		next.IntervalDays = Ladder[next.MasteryStage]
		next.NextDueDate = now.AddDate(0, 0, next.IntervalDays)
	case Shaky:
		next.MasteryStage = max(s.MasteryStage-1, 0)
		next.ConsecutiveSuccesses = 0
		next.IntervalDays = ShakyIntervalDays
		next.NextDueDate = now.AddDate(0, 0, ShakyIntervalDays)
	case Fail:
		next.MasteryStage = 0
		next.ConsecutiveSuccesses = 0
		next.IntervalDays = FailIntervalDays
		next.NextDueDate = now.AddDate(0, 0, FailIntervalDays)
	case Skip:
		next.NextDueDate = now.AddDate(0, 0, 1)
	case Postpone:
		next.NextDueDate = s.NextDueDate.AddDate(0, 0, 1)
		return next, nil
	default:
		return s, fmt.Errorf("%w: %s", ErrInvalidOutcome, outcome)
	}

	next.LastOutcome = outcome
	next.LastAttemptedAt = now
	return next, nil
}
