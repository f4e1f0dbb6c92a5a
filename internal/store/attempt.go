package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/leetreview/internal/spacedrep"
)

var attemptColumns = []string{
	colID,
	colProblemID,
	colAttemptedAt,
	colOutcome,
	colTimeSpentMinutes,
	colNotes,
	colStageBefore,
	colStageAfter,
	colNextDueDateAfter,
}

// attemptRepo implements AttemptRepo on a database or transaction.
type attemptRepo struct {
	q querier
}

func (r *attemptRepo) Append(ctx context.Context, a *Attempt) error {
	if !a.Outcome.IsValid() {
		return fmt.Errorf("append attempt: %w", spacedrep.ErrInvalidOutcome)
	}
	var minutes any
	if a.TimeSpentMinutes != nil {
		minutes = *a.TimeSpentMinutes
	}

	query, args := builder().Insert(attemptsTable).
		Columns(attemptColumns[1:]...).
		Values(
			a.ProblemID,
			dbTime(a.AttemptedAt),
			a.Outcome.String(),
			minutes,
			nullString(a.Notes),
			a.StageBefore,
			a.StageAfter,
			dbTime(a.NextDueDateAfter),
		).
		Query()

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert attempt id: %w", err)
	}
	a.ID = int(id)
	return nil
}

func (r *attemptRepo) ListForProblem(ctx context.Context, problemID int) ([]*Attempt, error) {
	query, args := builder().Select(attemptColumns...).
		From(builder().Table(attemptsTable)).
		Where(entsql.EQ(colProblemID, problemID)).
		OrderBy(entsql.Desc(colAttemptedAt), entsql.Desc(colID)).
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*Attempt
	for rows.Next() {
		var a Attempt
		if err := scanAttempt(rows, &a); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

func (r *attemptRepo) History(ctx context.Context, q HistoryQuery) ([]*HistoryEntry, int, error) {
	var (
		b = builder()
		a = b.Table(attemptsTable).As("a")
		p = b.Table(problemsTable).As("p")
	)

	filter := func(s *entsql.Selector) *entsql.Selector {
		if q.Outcome.IsValid() {
			s.Where(entsql.EQ(a.C(colOutcome), q.Outcome.String()))
		}
		return s
	}

	countSel := filter(b.Select(entsql.Count("*")).From(a))
	countQuery, countArgs := countSel.Query()
	var total int
	if err := r.q.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count history: %w", err)
	}

	cols := make([]string, 0, len(attemptColumns)+2)
	for _, c := range attemptColumns {
		cols = append(cols, a.C(c))
	}
	cols = append(cols, p.C(colTitle), p.C(colDifficulty))

	sel := filter(b.Select(cols...).
		From(a).
		Join(p).On(a.C(colProblemID), p.C(colID))).
		OrderBy(entsql.Desc(a.C(colAttemptedAt)), entsql.Desc(a.C(colID)))
	if q.Limit > 0 {
		sel.Limit(q.Limit)
		if q.Offset > 0 {
			sel.Offset(q.Offset)
		}
	}

	query, args := sel.Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		var (
			e          HistoryEntry
			difficulty string
		)
		if err := scanAttempt(rows, &e.Attempt, &e.ProblemTitle, &difficulty); err != nil {
			return nil, 0, fmt.Errorf("scan history: %w", err)
		}
		e.ProblemDifficulty = Difficulty(difficulty)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate history: %w", err)
	}
	return entries, total, nil
}

func (r *attemptRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	query, args := builder().Select(entsql.Count("*")).
		From(builder().Table(attemptsTable)).
		Where(entsql.GTE(colAttemptedAt, dbTime(since))).
		Query()

	var n int
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}

func (r *attemptRepo) GradedSince(ctx context.Context, since time.Time) ([]TaggedOutcome, error) {
	var (
		b = builder()
		a = b.Table(attemptsTable).As("a")
		p = b.Table(problemsTable).As("p")
	)
	graded := make([]any, 0, 3)
	for _, o := range spacedrep.Outcomes {
		if o.Graded() {
			graded = append(graded, o.String())
		}
	}

	query, args := b.Select(a.C(colOutcome), p.C(colTags)).
		From(a).
		Join(p).On(a.C(colProblemID), p.C(colID)).
		Where(entsql.And(
			entsql.GTE(a.C(colAttemptedAt), dbTime(since)),
			entsql.In(a.C(colOutcome), graded...),
		)).
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query graded attempts: %w", err)
	}
	defer rows.Close()

	var out []TaggedOutcome
	for rows.Next() {
		var outcome, tags string
		if err := rows.Scan(&outcome, &tags); err != nil {
			return nil, fmt.Errorf("scan graded attempt: %w", err)
		}
		o, err := spacedrep.ParseOutcome(outcome)
		if err != nil {
			return nil, err
		}
		decoded, err := decodeTags(tags)
		if err != nil {
			return nil, err
		}
		out = append(out, TaggedOutcome{Outcome: o, Tags: decoded})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate graded attempts: %w", err)
	}
	return out, nil
}

// scanAttempt scans the attemptColumns into a, followed by any extra
// destinations selected after them.
func scanAttempt(sc rowScanner, a *Attempt, extra ...any) error {
	var (
		outcome          string
		minutes          sql.NullInt64
		notes            sql.NullString
		attemptedAt      time.Time
		nextDueDateAfter time.Time
	)
	dest := []any{
		&a.ID,
		&a.ProblemID,
		&attemptedAt,
		&outcome,
		&minutes,
		&notes,
		&a.StageBefore,
		&a.StageAfter,
		&nextDueDateAfter,
	}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return err
	}

	o, err := spacedrep.ParseOutcome(outcome)
	if err != nil {
		return fmt.Errorf("attempt %d: %w", a.ID, err)
	}
	a.Outcome = o
	a.AttemptedAt = attemptedAt.UTC()
	a.NextDueDateAfter = nextDueDateAfter.UTC()
	a.Notes = notes.String
	if minutes.Valid {
		m := int(minutes.Int64)
		a.TimeSpentMinutes = &m
	}
	return nil
}
