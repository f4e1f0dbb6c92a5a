package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/store"
)

// History paging limits.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// AttemptInput is one logged review of a problem.
type AttemptInput struct {
	Outcome          spacedrep.Outcome
	TimeSpentMinutes *int
	Notes            string
}

// HistoryOptions pages through the attempt log. A zero Limit selects
// DefaultHistoryLimit; an empty Outcome matches every outcome.
type HistoryOptions struct {
	Limit   int
	Offset  int
	Outcome string
}

// HistoryPage is one page of the attempt log and the total matching count.
type HistoryPage struct {
	Attempts []*store.HistoryEntry
	Total    int
}

// LogAttempt records an outcome for problem id. The scheduling state
// update and the attempt record are written in one transaction; when the
// scheduler rejects the outcome or the stored state nothing is written.
func (s *Service) LogAttempt(ctx context.Context, id int, in AttemptInput) (*store.Attempt, error) {
	if !in.Outcome.IsValid() {
		return nil, fmt.Errorf("%w: %s", spacedrep.ErrInvalidOutcome, in.Outcome)
	}
	if in.TimeSpentMinutes != nil && *in.TimeSpentMinutes < 0 {
		return nil, invalid("time_spent_minutes", "must not be negative")
	}
	attempt, _, err := s.record(ctx, id, in)
	return attempt, err
}

// Postpone pushes the due date of problem id back by one day and records
// a POSTPONE entry in the attempt log.
func (s *Service) Postpone(ctx context.Context, id int) (*store.Problem, error) {
	_, p, err := s.record(ctx, id, AttemptInput{Outcome: spacedrep.Postpone})
	return p, err
}

// record runs the read-apply-write-append sequence for one outcome while
// holding the problem's lock.
func (s *Service) record(ctx context.Context, id int, in AttemptInput) (*store.Attempt, *store.Problem, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	now := s.Now()
	var (
		attempt *store.Attempt
		problem *store.Problem
	)
	err := s.store.InTx(ctx, func(r store.Repos) error {
		p, err := r.Problems.Get(ctx, id)
		if err != nil {
			return err
		}

		next, err := spacedrep.Apply(p.Schedule, in.Outcome, now)
		if err != nil {
			return fmt.Errorf("problem %d: %w", id, err)
		}
		if err := r.Problems.SaveSchedule(ctx, id, next, now); err != nil {
			return err
		}

		a := &store.Attempt{
			ProblemID:        id,
			AttemptedAt:      now,
			Outcome:          in.Outcome,
			TimeSpentMinutes: in.TimeSpentMinutes,
			Notes:            strings.TrimSpace(in.Notes),
			StageBefore:      p.Schedule.MasteryStage,
			StageAfter:       next.MasteryStage,
			NextDueDateAfter: next.NextDueDate,
		}
		if err := r.Attempts.Append(ctx, a); err != nil {
			return err
		}

		p.Schedule = next
		p.UpdatedAt = now
		attempt, problem = a, p
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Int("problem_id", id).Str("outcome", in.Outcome.String()).Msg("attempt rejected")
		return nil, nil, err
	}

	s.log.Info().
		Int("problem_id", id).
		Str("outcome", in.Outcome.String()).
		Int("stage_before", attempt.StageBefore).
		Int("stage_after", attempt.StageAfter).
		Time("next_due", attempt.NextDueDateAfter).
		Msg("attempt recorded")
	return attempt, problem, nil
}

// History returns a page of the attempt log, newest first.
func (s *Service) History(ctx context.Context, opts HistoryOptions) (*HistoryPage, error) {
	q := store.HistoryQuery{Limit: opts.Limit, Offset: opts.Offset}
	switch {
	case q.Limit == 0:
		q.Limit = DefaultHistoryLimit
	case q.Limit < 1 || q.Limit > MaxHistoryLimit:
		return nil, invalid("limit", "must be between 1 and %d", MaxHistoryLimit)
	}
	if q.Offset < 0 {
		return nil, invalid("offset", "must not be negative")
	}
	if opts.Outcome != "" {
		o, err := spacedrep.ParseOutcome(opts.Outcome)
		if err != nil {
			return nil, invalid("outcome", "%q is not a known outcome", opts.Outcome)
		}
		q.Outcome = o
	}

	entries, total, err := s.store.Attempts().History(ctx, q)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*store.HistoryEntry{}
	}
	return &HistoryPage{Attempts: entries, Total: total}, nil
}
