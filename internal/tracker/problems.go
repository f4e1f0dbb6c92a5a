package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/store"
)

// Problem list status filters.
const (
	StatusOverdue  = "overdue"
	StatusDueSoon  = "due_soon"
	StatusMastered = "mastered"
)

// Problem list sort keys.
const (
	SortNextDue       = "next_due_date"
	SortLastAttempted = "last_attempted"
	SortDifficulty    = "difficulty"
	SortCreated       = "created_at"
)

// DueSoonWindow is how far ahead the due_soon status looks.
const DueSoonWindow = 7 * 24 * time.Hour

var sortOrders = map[string]store.ProblemOrder{
	SortNextDue:       store.OrderNextDue,
	SortLastAttempted: store.OrderLastAttempted,
	SortDifficulty:    store.OrderDifficulty,
	SortCreated:       store.OrderCreated,
}

// ProblemInput describes a new problem.
type ProblemInput struct {
	Title          string
	Platform       string
	URL            string
	Difficulty     string
	Tags           []string
	NotesTrick     string
	NotesMistakes  string
	NotesEdgeCases string
}

// ProblemPatch holds a partial update. Nil fields are left unchanged.
type ProblemPatch struct {
	Title          *string
	Platform       *string
	URL            *string
	Difficulty     *string
	Tags           *[]string
	NotesTrick     *string
	NotesMistakes  *string
	NotesEdgeCases *string
}

// ListOptions filters and sorts ListProblems. Empty fields are ignored.
type ListOptions struct {
	Search     string
	Difficulty string
	Tag        string
	Status     string
	Sort       string
}

// ProblemDetail is a problem with its attempts, newest first.
type ProblemDetail struct {
	*store.Problem
	Attempts []*store.Attempt
}

// CreateProblem validates in and stores a new problem due one day from now.
func (s *Service) CreateProblem(ctx context.Context, in ProblemInput) (*store.Problem, error) {
	p, err := newProblem(in, s.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Problems().Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create problem: %w", err)
	}

	s.log.Info().Int("problem_id", p.ID).Str("title", p.Title).Msg("problem created")
	return p, nil
}

// newProblem validates in and builds an unsaved problem created at now.
func newProblem(in ProblemInput, now time.Time) (*store.Problem, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	difficulty, err := parseDifficulty(in.Difficulty)
	if err != nil {
		return nil, err
	}
	url, err := normalizeURL(in.URL)
	if err != nil {
		return nil, err
	}

	return &store.Problem{
		Title:          title,
		Platform:       normalizePlatform(in.Platform),
		URL:            url,
		Difficulty:     difficulty,
		Tags:           normalizeTags(in.Tags),
		NotesTrick:     strings.TrimSpace(in.NotesTrick),
		NotesMistakes:  strings.TrimSpace(in.NotesMistakes),
		NotesEdgeCases: strings.TrimSpace(in.NotesEdgeCases),
		CreatedAt:      now,
		UpdatedAt:      now,
		Schedule:       spacedrep.NewState(now),
	}, nil
}

// GetProblem returns the problem with id and its attempt log.
func (s *Service) GetProblem(ctx context.Context, id int) (*ProblemDetail, error) {
	p, err := s.store.Problems().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	attempts, err := s.store.Attempts().ListForProblem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("problem %d attempts: %w", id, err)
	}
	if attempts == nil {
		attempts = []*store.Attempt{}
	}
	return &ProblemDetail{Problem: p, Attempts: attempts}, nil
}

// UpdateProblem applies patch to the descriptive fields of problem id.
// Scheduling state is never changed by an update.
func (s *Service) UpdateProblem(ctx context.Context, id int, patch ProblemPatch) (*store.Problem, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var updated *store.Problem
	err := s.store.InTx(ctx, func(r store.Repos) error {
		p, err := r.Problems.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := patch.apply(p); err != nil {
			return err
		}
		p.UpdatedAt = s.Now()
		if err := r.Problems.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("problem_id", id).Msg("problem updated")
	return updated, nil
}

// DeleteProblem removes problem id and its attempts.
func (s *Service) DeleteProblem(ctx context.Context, id int) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.store.Problems().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int("problem_id", id).Msg("problem deleted")
	return nil
}

// ListProblems returns problems matching opts.
func (s *Service) ListProblems(ctx context.Context, opts ListOptions) ([]*store.Problem, error) {
	f, err := s.filter(opts)
	if err != nil {
		return nil, err
	}
	problems, err := s.store.Problems().List(ctx, f)
	if err != nil {
		return nil, err
	}
	if problems == nil {
		problems = []*store.Problem{}
	}
	return problems, nil
}

func (s *Service) filter(opts ListOptions) (store.ProblemFilter, error) {
	f := store.ProblemFilter{
		Search: strings.TrimSpace(opts.Search),
		Tag:    strings.TrimSpace(opts.Tag),
	}

	if opts.Difficulty != "" {
		d, err := parseDifficulty(opts.Difficulty)
		if err != nil {
			return f, err
		}
		f.Difficulty = d
	}

	now := s.Now()
	switch strings.ToLower(strings.TrimSpace(opts.Status)) {
	case "":
	case StatusOverdue:
		f.DueBefore = now
	case StatusDueSoon:
		f.DueFrom = now
		f.DueUntil = now.Add(DueSoonWindow)
	case StatusMastered:
		f.MinStage = spacedrep.ProficientStage
	default:
		return f, invalid("status", "%q is not one of %s, %s, %s", opts.Status, StatusOverdue, StatusDueSoon, StatusMastered)
	}

	if key := strings.ToLower(strings.TrimSpace(opts.Sort)); key != "" {
		order, ok := sortOrders[key]
		if !ok {
			return f, invalid("sort", "%q is not one of %s, %s, %s, %s", opts.Sort, SortNextDue, SortLastAttempted, SortDifficulty, SortCreated)
		}
		f.Order = order
	}
	return f, nil
}

func (patch ProblemPatch) apply(p *store.Problem) error {
	if patch.Title != nil {
		title, err := normalizeTitle(*patch.Title)
		if err != nil {
			return err
		}
		p.Title = title
	}
	if patch.Platform != nil {
		p.Platform = normalizePlatform(*patch.Platform)
	}
	if patch.URL != nil {
		url, err := normalizeURL(*patch.URL)
		if err != nil {
			return err
		}
		p.URL = url
	}
	if patch.Difficulty != nil {
		d, err := parseDifficulty(*patch.Difficulty)
		if err != nil {
			return err
		}
		p.Difficulty = d
	}
	if patch.Tags != nil {
		p.Tags = normalizeTags(*patch.Tags)
	}
	if patch.NotesTrick != nil {
		p.NotesTrick = strings.TrimSpace(*patch.NotesTrick)
	}
	if patch.NotesMistakes != nil {
		p.NotesMistakes = strings.TrimSpace(*patch.NotesMistakes)
	}
	if patch.NotesEdgeCases != nil {
		p.NotesEdgeCases = strings.TrimSpace(*patch.NotesEdgeCases)
	}
	return nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title", "must not be empty")
	}
	return title, nil
}

func normalizePlatform(platform string) string {
	if platform = strings.TrimSpace(platform); platform == "" {
		return store.DefaultPlatform
	}
	return platform
}

func parseDifficulty(s string) (store.Difficulty, error) {
	d, err := store.ParseDifficulty(s)
	if err != nil {
		return "", invalid("difficulty", "%q is not one of EASY, MEDIUM, HARD", s)
	}
	return d, nil
}

// normalizeURL accepts an empty URL or one with an http(s) scheme.
func normalizeURL(url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", invalid("url", "must start with http:// or https://")
	}
	return url, nil
}

// normalizeTags trims tags and drops blanks and duplicates, keeping the
// first occurrence order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
