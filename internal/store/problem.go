package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/leetreview/internal/spacedrep"
)

var problemColumns = []string{
	colID,
	colTitle,
	colPlatform,
	colURL,
	colDifficulty,
	colTags,
	colNotesTrick,
	colNotesMistakes,
	colNotesEdgeCases,
	colCreatedAt,
	colUpdatedAt,
	colNextDueDate,
	colIntervalDays,
	colMasteryStage,
	colConsecutiveSuccesses,
	colLastOutcome,
	colLastAttemptedAt,
}

// problemRepo implements ProblemRepo on a database or transaction.
type problemRepo struct {
	q querier
}

func (r *problemRepo) Create(ctx context.Context, p *Problem) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}
	if p.Platform == "" {
		p.Platform = DefaultPlatform
	}

	s := p.Schedule
	query, args := builder().Insert(problemsTable).
		Columns(problemColumns[1:]...).
		Values(
			p.Title,
			p.Platform,
			nullString(p.URL),
			string(p.Difficulty),
			tags,
			nullString(p.NotesTrick),
			nullString(p.NotesMistakes),
			nullString(p.NotesEdgeCases),
			dbTime(p.CreatedAt),
			dbTime(p.UpdatedAt),
			dbTime(s.NextDueDate),
			s.IntervalDays,
			s.MasteryStage,
			s.ConsecutiveSuccesses,
			nullOutcome(s.LastOutcome),
			nullTime(s.LastAttemptedAt),
		).
		Query()

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert problem: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert problem id: %w", err)
	}
	p.ID = int(id)
	return nil
}

func (r *problemRepo) Get(ctx context.Context, id int) (*Problem, error) {
	query, args := builder().Select(problemColumns...).
		From(builder().Table(problemsTable)).
		Where(entsql.EQ(colID, id)).
		Query()

	p, err := scanProblem(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("problem %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query problem %d: %w", id, err)
	}
	return p, nil
}

func (r *problemRepo) Update(ctx context.Context, p *Problem) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}
	query, args := builder().Update(problemsTable).
		Set(colTitle, p.Title).
		Set(colPlatform, p.Platform).
		Set(colURL, nullString(p.URL)).
		Set(colDifficulty, string(p.Difficulty)).
		Set(colTags, tags).
		Set(colNotesTrick, nullString(p.NotesTrick)).
		Set(colNotesMistakes, nullString(p.NotesMistakes)).
		Set(colNotesEdgeCases, nullString(p.NotesEdgeCases)).
		Set(colUpdatedAt, dbTime(p.UpdatedAt)).
		Where(entsql.EQ(colID, p.ID)).
		Query()
	return r.execOne(ctx, p.ID, "update problem", query, args)
}

func (r *problemRepo) SaveSchedule(ctx context.Context, id int, s spacedrep.State, updatedAt time.Time) error {
	query, args := builder().Update(problemsTable).
		Set(colNextDueDate, dbTime(s.NextDueDate)).
		Set(colIntervalDays, s.IntervalDays).
		Set(colMasteryStage, s.MasteryStage).
		Set(colConsecutiveSuccesses, s.ConsecutiveSuccesses).
		Set(colLastOutcome, nullOutcome(s.LastOutcome)).
		Set(colLastAttemptedAt, nullTime(s.LastAttemptedAt)).
		Set(colUpdatedAt, dbTime(updatedAt)).
		Where(entsql.EQ(colID, id)).
		Query()
	return r.execOne(ctx, id, "save schedule", query, args)
}

func (r *problemRepo) Delete(ctx context.Context, id int) error {
	query, args := builder().Delete(problemsTable).
		Where(entsql.EQ(colID, id)).
		Query()
	return r.execOne(ctx, id, "delete problem", query, args)
}

func (r *problemRepo) DeleteAll(ctx context.Context) error {
	for _, table := range []string{attemptsTable, problemsTable} {
		query, args := builder().Delete(table).Query()
		if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (r *problemRepo) List(ctx context.Context, f ProblemFilter) ([]*Problem, error) {
	sel := builder().Select(problemColumns...).From(builder().Table(problemsTable))
	if preds := f.predicates(); len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	switch f.Order {
	case OrderLastAttempted:
		// SQLite sorts NULLs last in descending order.
		sel.OrderBy(entsql.Desc(colLastAttemptedAt), entsql.Asc(colID))
	case OrderCreated:
		sel.OrderBy(entsql.Desc(colCreatedAt), entsql.Desc(colID))
	default:
		sel.OrderBy(entsql.Asc(colNextDueDate), entsql.Asc(colID))
	}

	query, args := sel.Query()
	problems, err := r.queryProblems(ctx, query, args)
	if err != nil {
		return nil, err
	}

	if f.Order == OrderDifficulty {
		sort.SliceStable(problems, func(i, j int) bool {
			return problems[i].Difficulty.rank() < problems[j].Difficulty.rank()
		})
	}
	return problems, nil
}

func (r *problemRepo) Due(ctx context.Context, until time.Time) ([]*Problem, error) {
	return r.List(ctx, ProblemFilter{DueUntil: until})
}

func (r *problemRepo) CountDueBefore(ctx context.Context, t time.Time) (int, error) {
	return r.Count(ctx, ProblemFilter{DueBefore: t})
}

func (r *problemRepo) Unattempted(ctx context.Context, exclude []int, limit int) ([]*Problem, error) {
	preds := []*entsql.Predicate{entsql.IsNull(colLastAttemptedAt)}
	if len(exclude) > 0 {
		ids := make([]any, len(exclude))
		for i, id := range exclude {
			ids[i] = id
		}
		preds = append(preds, entsql.NotIn(colID, ids...))
	}

	sel := builder().Select(problemColumns...).
		From(builder().Table(problemsTable)).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc(colCreatedAt), entsql.Desc(colID))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	return r.queryProblems(ctx, query, args)
}

func (r *problemRepo) Count(ctx context.Context, f ProblemFilter) (int, error) {
	sel := builder().Select(entsql.Count("*")).From(builder().Table(problemsTable))
	if preds := f.predicates(); len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	query, args := sel.Query()

	var n int
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count problems: %w", err)
	}
	return n, nil
}

// execOne runs a statement that must touch exactly the row with id.
func (r *problemRepo) execOne(ctx context.Context, id int, op, query string, args []any) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("problem %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *problemRepo) queryProblems(ctx context.Context, query string, args []any) ([]*Problem, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query problems: %w", err)
	}
	defer rows.Close()

	var problems []*Problem
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan problem: %w", err)
		}
		problems = append(problems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate problems: %w", err)
	}
	return problems, nil
}

func (f ProblemFilter) predicates() []*entsql.Predicate {
	var preds []*entsql.Predicate
	if f.Search != "" {
		preds = append(preds, entsql.ContainsFold(colTitle, f.Search))
	}
	if f.Difficulty != "" {
		preds = append(preds, entsql.EQ(colDifficulty, string(f.Difficulty)))
	}
	if f.Tag != "" {
		preds = append(preds, entsql.Contains(colTags, tagNeedle(f.Tag)))
	}
	if !f.DueBefore.IsZero() {
		preds = append(preds, entsql.LT(colNextDueDate, dbTime(f.DueBefore)))
	}
	if !f.DueFrom.IsZero() {
		preds = append(preds, entsql.GTE(colNextDueDate, dbTime(f.DueFrom)))
	}
	if !f.DueUntil.IsZero() {
		preds = append(preds, entsql.LTE(colNextDueDate, dbTime(f.DueUntil)))
	}
	if f.MinStage > 0 {
		preds = append(preds, entsql.GTE(colMasteryStage, f.MinStage))
	}
	return preds
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProblem(sc rowScanner) (*Problem, error) {
	var (
		p                     Problem
		url                   sql.NullString
		difficulty, tags      string
		trick, mistakes, edge sql.NullString
		lastOutcome           sql.NullString
		lastAttemptedAt       sql.NullTime
		createdAt, updatedAt  time.Time
		nextDueDate           time.Time
	)
	err := sc.Scan(
		&p.ID,
		&p.Title,
		&p.Platform,
		&url,
		&difficulty,
		&tags,
		&trick,
		&mistakes,
		&edge,
		&createdAt,
		&updatedAt,
		&nextDueDate,
		&p.Schedule.IntervalDays,
		&p.Schedule.MasteryStage,
		&p.Schedule.ConsecutiveSuccesses,
		&lastOutcome,
		&lastAttemptedAt,
	)
	if err != nil {
		return nil, err
	}

	p.URL = url.String
	p.Difficulty = Difficulty(difficulty)
	p.NotesTrick = trick.String
	p.NotesMistakes = mistakes.String
	p.NotesEdgeCases = edge.String
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	p.Schedule.NextDueDate = nextDueDate.UTC()
	if lastAttemptedAt.Valid {
		p.Schedule.LastAttemptedAt = lastAttemptedAt.Time.UTC()
	}
	if lastOutcome.Valid {
		o, err := spacedrep.ParseOutcome(lastOutcome.String)
		if err != nil {
			return nil, fmt.Errorf("problem %d: %w", p.ID, err)
		}
		p.Schedule.LastOutcome = o
	}
	if p.Tags, err = decodeTags(tags); err != nil {
		return nil, fmt.Errorf("problem %d: %w", p.ID, err)
	}
	return &p, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(s string) ([]string, error) {
	tags := []string{}
	if s == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}

// tagNeedle is the JSON encoding of tag as it appears inside the tags array.
func tagNeedle(tag string) string {
	b, _ := json.Marshal(tag)
	return string(b)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return dbTime(t)
}

func nullOutcome(o spacedrep.Outcome) any {
	if !o.IsValid() {
		return nil
	}
	return o.String()
}
