package tracker

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/abhisek/leetreview/internal/store"
)

// Weak tag thresholds.
const (
	WeakTagWindow      = 30 * 24 * time.Hour
	WeakTagMinAttempts = 3
	WeakTagFailRate    = 0.4
	MaxWeakTags        = 5
)

// TodayQueue is the review session for the current day.
type TodayQueue struct {
	Due []*store.Problem // due by the end of today, earliest first
	New []*store.Problem // never attempted and not already due, newest first
}

// Len returns the number of problems in the queue.
func (q *TodayQueue) Len() int {
	return len(q.Due) + len(q.New)
}

// All returns the due problems followed by the new ones.
func (q *TodayQueue) All() []*store.Problem {
	out := make([]*store.Problem, 0, q.Len())
	out = append(out, q.Due...)
	return append(out, q.New...)
}

// TagStat is the recent failure rate of one tag.
type TagStat struct {
	Tag           string
	TotalAttempts int
	FailRate      float64
}

// Stats summarises the library for the dashboard.
type Stats struct {
	TotalProblems      int
	DueToday           int
	Overdue            int
	AttemptsLast7Days  int
	AttemptsLast30Days int
	WeakTags           []TagStat
}

// Today returns the problems to review today.
func (s *Service) Today(ctx context.Context) (*TodayQueue, error) {
	_, end := s.dayBounds(s.Now())

	due, err := s.store.Problems().Due(ctx, end)
	if err != nil {
		return nil, fmt.Errorf("due problems: %w", err)
	}
	ids := make([]int, len(due))
	for i, p := range due {
		ids[i] = p.ID
	}
	fresh, err := s.store.Problems().Unattempted(ctx, ids, s.newLimit)
	if err != nil {
		return nil, fmt.Errorf("new problems: %w", err)
	}

	q := &TodayQueue{Due: due, New: fresh}
	if q.Due == nil {
		q.Due = []*store.Problem{}
	}
	if q.New == nil {
		q.New = []*store.Problem{}
	}
	return q, nil
}

// Stats computes the dashboard counts and weak tags.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	now := s.Now()
	start, end := s.dayBounds(now)
	problems := s.store.Problems()
	attempts := s.store.Attempts()

	var (
		st  Stats
		err error
	)
	if st.TotalProblems, err = problems.Count(ctx, store.ProblemFilter{}); err != nil {
		return nil, err
	}
	if st.DueToday, err = problems.Count(ctx, store.ProblemFilter{DueUntil: end}); err != nil {
		return nil, err
	}
	if st.Overdue, err = problems.CountDueBefore(ctx, start); err != nil {
		return nil, err
	}
	if st.AttemptsLast7Days, err = attempts.CountSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}
	if st.AttemptsLast30Days, err = attempts.CountSince(ctx, now.AddDate(0, 0, -30)); err != nil {
		return nil, err
	}

	graded, err := attempts.GradedSince(ctx, now.Add(-WeakTagWindow))
	if err != nil {
		return nil, err
	}
	st.WeakTags = WeakTags(graded)
	return &st, nil
}

// WeakTags groups graded attempts by tag and returns the tags with at least
// WeakTagMinAttempts attempts and a SHAKY/FAIL rate above WeakTagFailRate,
// highest rate first, at most MaxWeakTags of them.
func WeakTags(graded []store.TaggedOutcome) []TagStat {
	type counts struct{ total, failures int }
	byTag := make(map[string]*counts)
	for _, g := range graded {
		if !g.Outcome.Graded() {
			continue
		}
		for _, tag := range g.Tags {
			c, ok := byTag[tag]
			if !ok {
				c = &counts{}
				byTag[tag] = c
			}
			c.total++
			if g.Outcome.Struggled() {
				c.failures++
			}
		}
	}

	weak := []TagStat{}
	for tag, c := range byTag {
		if c.total < WeakTagMinAttempts {
			continue
		}
		rate := float64(c.failures) / float64(c.total)
		if rate <= WeakTagFailRate {
			continue
		}
		weak = append(weak, TagStat{
			Tag:           tag,
			TotalAttempts: c.total,
			FailRate:      math.Round(rate*100) / 100,
		})
	}

	sort.Slice(weak, func(i, j int) bool {
		if weak[i].FailRate != weak[j].FailRate {
			return weak[i].FailRate > weak[j].FailRate
		}
		return weak[i].Tag < weak[j].Tag
	})
	if len(weak) > MaxWeakTags {
		weak = weak[:MaxWeakTags]
	}
	return weak
}

// Reset deletes every problem and attempt.
func (s *Service) Reset(ctx context.Context) error {
	err := s.store.InTx(ctx, func(r store.Repos) error {
		return r.Problems.DeleteAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.log.Warn().Msg("all problems and attempts deleted")
	return nil
}
