package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/store"
)

// SeedReview is a past review, Ago before now.
type SeedReview struct {
	Ago     time.Duration
	Outcome spacedrep.Outcome
	Minutes int
	Notes   string
}

// SeedProblem is a sample problem added Added before now, with its
// reviews oldest first.
type SeedProblem struct {
	ProblemInput
	Added   time.Duration
	Reviews []SeedReview
}

// Seed replaces all data with problems. Each review is replayed through
// the scheduler and logged, so the stored state always matches the
// attempt log. It returns the number of problems created.
func (s *Service) Seed(ctx context.Context, problems []SeedProblem) (int, error) {
	now := s.Now()
	err := s.store.InTx(ctx, func(r store.Repos) error {
		if err := r.Problems.DeleteAll(ctx); err != nil {
			return err
		}
		for i, sp := range problems {
			if err := seedProblem(ctx, r, sp, now); err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}

	s.log.Warn().Int("problems", len(problems)).Msg("database seeded with sample data")
	return len(problems), nil
}

func seedProblem(ctx context.Context, r store.Repos, sp SeedProblem, now time.Time) error {
	created := now.Add(-sp.Added)
	p, err := newProblem(sp.ProblemInput, created)
	if err != nil {
		return err
	}
	if err := r.Problems.Create(ctx, p); err != nil {
		return err
	}

	state, last := p.Schedule, created
	for _, rv := range sp.Reviews {
		at := now.Add(-rv.Ago)
		if at.Before(last) || at.After(now) {
			return invalid("reviews", "must be ordered oldest first between creation and now")
		}
		next, err := spacedrep.Apply(state, rv.Outcome, at)
		if err != nil {
			return err
		}

		a := &store.Attempt{
			ProblemID:        p.ID,
			AttemptedAt:      at,
			Outcome:          rv.Outcome,
			Notes:            rv.Notes,
			StageBefore:      state.MasteryStage,
			StageAfter:       next.MasteryStage,
			NextDueDateAfter: next.NextDueDate,
		}
		if rv.Minutes > 0 {
			m := rv.Minutes
			a.TimeSpentMinutes = &m
		}
		if err := r.Attempts.Append(ctx, a); err != nil {
			return err
		}
		state, last = next, at
	}
	if len(sp.Reviews) == 0 {
		return nil
	}
	return r.Problems.SaveSchedule(ctx, p.ID, state, last)
}
