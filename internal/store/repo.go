package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/leetreview/internal/spacedrep"
)

// ErrNotFound is returned when a problem does not exist.
var ErrNotFound = errors.New("store: not found")

// DefaultPlatform is stored when a problem is created without a platform.
const DefaultPlatform = "LeetCode"

// Difficulty is the published difficulty of a problem.
type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty converts a case-insensitive name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("invalid difficulty %q", s)
	}
	return d, nil
}

// IsValid reports whether d is EASY, MEDIUM or HARD.
func (d Difficulty) IsValid() bool {
	return d == Easy || d == Medium || d == Hard
}

// rank orders difficulties hardest first.
func (d Difficulty) rank() int {
	switch d {
	case Hard:
		return 0
	case Medium:
		return 1
	default:
		return 2
	}
}

// Problem is a tracked practice problem and its scheduling state.
type Problem struct {
	ID             int
	Title          string
	Platform       string
	URL            string
	Difficulty     Difficulty
	Tags           []string
	NotesTrick     string
	NotesMistakes  string
	NotesEdgeCases string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Schedule       spacedrep.State
}

// Attempt is one immutable entry in the attempt log.
type Attempt struct {
	ID               int
	ProblemID        int
	AttemptedAt      time.Time
	Outcome          spacedrep.Outcome
	TimeSpentMinutes *int
	Notes            string
	StageBefore      int
	StageAfter       int
	NextDueDateAfter time.Time
}

// HistoryEntry is an attempt joined with the problem it belongs to.
type HistoryEntry struct {
	Attempt
	ProblemTitle      string
	ProblemDifficulty Difficulty
}

// TaggedOutcome pairs an attempt outcome with its problem's tags.
type TaggedOutcome struct {
	Outcome spacedrep.Outcome
	Tags    []string
}

// ProblemOrder selects the sort order of ProblemRepo.List.
type ProblemOrder int

const (
	OrderNextDue       ProblemOrder = iota // next_due_date ascending
	OrderLastAttempted                     // last_attempted_at descending, never attempted last
	OrderCreated                           // created_at descending
	OrderDifficulty                        // HARD, MEDIUM, EASY, then next_due_date
)

// ProblemFilter narrows ProblemRepo.List and Count. Zero fields are ignored.
type ProblemFilter struct {
	Search     string     // case-insensitive title substring
	Difficulty Difficulty // exact match
	Tag        string     // problem carries this tag
	DueBefore  time.Time  // next_due_date < DueBefore
	DueFrom    time.Time  // next_due_date >= DueFrom
	DueUntil   time.Time  // next_due_date <= DueUntil
	MinStage   int        // mastery_stage >= MinStage when > 0
	Order      ProblemOrder
}

// HistoryQuery pages through the attempt log, newest first.
type HistoryQuery struct {
	Limit   int
	Offset  int
	Outcome spacedrep.Outcome // zero matches every outcome
}

// Repos groups repositories that share one transaction.
type Repos struct {
	Problems ProblemRepo
	Attempts AttemptRepo
}

// ProblemRepo persists problems and their scheduling state.
type ProblemRepo interface {
	// Create inserts p and sets its ID.
	Create(ctx context.Context, p *Problem) error

	// Get returns the problem with id, or ErrNotFound.
	Get(ctx context.Context, id int) (*Problem, error)

	// Update writes the descriptive fields of p (not its schedule).
	Update(ctx context.Context, p *Problem) error

	// SaveSchedule writes the scheduling state of problem id.
	SaveSchedule(ctx context.Context, id int, s spacedrep.State, updatedAt time.Time) error

	// Delete removes the problem and, by cascade, its attempts.
	Delete(ctx context.Context, id int) error

	// DeleteAll removes every problem and attempt.
	DeleteAll(ctx context.Context) error

	// List returns problems matching f in the requested order.
	List(ctx context.Context, f ProblemFilter) ([]*Problem, error)

	// Due returns problems with next_due_date <= until, earliest first.
	Due(ctx context.Context, until time.Time) ([]*Problem, error)

	// CountDueBefore returns the number of problems with next_due_date < t.
	CountDueBefore(ctx context.Context, t time.Time) (int, error)

	// Unattempted returns never-attempted problems, newest first,
	// skipping the ids in exclude.
	Unattempted(ctx context.Context, exclude []int, limit int) ([]*Problem, error)

	// Count returns the number of problems matching f.
	Count(ctx context.Context, f ProblemFilter) (int, error)
}

// AttemptRepo provides append and query access to the attempt log.
type AttemptRepo interface {
	// Append records a new attempt and sets its ID.
	Append(ctx context.Context, a *Attempt) error

	// ListForProblem returns the attempts of one problem, newest first.
	ListForProblem(ctx context.Context, problemID int) ([]*Attempt, error)

	// History returns a page of attempts across all problems, newest first,
	// and the total number matching q.
	History(ctx context.Context, q HistoryQuery) ([]*HistoryEntry, int, error)

	// CountSince returns the number of attempts at or after since.
	CountSince(ctx context.Context, since time.Time) (int, error)

	// GradedSince returns PASS/SHAKY/FAIL attempts at or after since with
	// the tags of their problems.
	GradedSince(ctx context.Context, since time.Time) ([]TaggedOutcome, error)
}
