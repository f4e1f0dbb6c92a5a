package app

import (
	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/store"
	"github.com/abhisek/leetreview/internal/tracker"
)

// queueLoadedMsg is sent when today's queue has been read.
type queueLoadedMsg struct {
	Queue *tracker.TodayQueue
	Err   error
}

// recordedMsg is sent when an outcome has been written for a problem.
type recordedMsg struct {
	Problem *store.Problem // the problem as shown on the card
	Outcome spacedrep.Outcome
	Attempt *store.Attempt // nil for POSTPONE
	Updated *store.Problem // set for POSTPONE
	Err     error
}
