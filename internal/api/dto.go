package api

import (
	"time"

	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/store"
	"github.com/abhisek/leetreview/internal/tracker"
)

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type problemCreateRequest struct {
	Title          string   `json:"title"`
	Platform       string   `json:"platform"`
	URL            string   `json:"url"`
	Difficulty     string   `json:"difficulty"`
	Tags           []string `json:"tags"`
	NotesTrick     string   `json:"notes_trick"`
	NotesMistakes  string   `json:"notes_mistakes"`
	NotesEdgeCases string   `json:"notes_edge_cases"`
}

func (r problemCreateRequest) input() tracker.ProblemInput {
	return tracker.ProblemInput{
		Title:          r.Title,
		Platform:       r.Platform,
		URL:            r.URL,
		Difficulty:     r.Difficulty,
		Tags:           r.Tags,
		NotesTrick:     r.NotesTrick,
		NotesMistakes:  r.NotesMistakes,
		NotesEdgeCases: r.NotesEdgeCases,
	}
}

// problemUpdateRequest leaves absent or null fields unchanged.
type problemUpdateRequest struct {
	Title          *string   `json:"title"`
	Platform       *string   `json:"platform"`
	URL            *string   `json:"url"`
	Difficulty     *string   `json:"difficulty"`
	Tags           *[]string `json:"tags"`
	NotesTrick     *string   `json:"notes_trick"`
	NotesMistakes  *string   `json:"notes_mistakes"`
	NotesEdgeCases *string   `json:"notes_edge_cases"`
}

func (r problemUpdateRequest) patch() tracker.ProblemPatch {
	return tracker.ProblemPatch{
		Title:          r.Title,
		Platform:       r.Platform,
		URL:            r.URL,
		Difficulty:     r.Difficulty,
		Tags:           r.Tags,
		NotesTrick:     r.NotesTrick,
		NotesMistakes:  r.NotesMistakes,
		NotesEdgeCases: r.NotesEdgeCases,
	}
}

type attemptRequest struct {
	Outcome          string `json:"outcome"`
	TimeSpentMinutes *int   `json:"time_spent_minutes"`
	Notes            string `json:"notes"`
}

// ProblemResponse is the wire form of a problem, shared by the API and the
// CLI's --json output.
type ProblemResponse struct {
	ID                   int        `json:"id"`
	Title                string     `json:"title"`
	Platform             string     `json:"platform"`
	URL                  *string    `json:"url"`
	Difficulty           string     `json:"difficulty"`
	Tags                 []string   `json:"tags"`
	NotesTrick           *string    `json:"notes_trick"`
	NotesMistakes        *string    `json:"notes_mistakes"`
	NotesEdgeCases       *string    `json:"notes_edge_cases"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	NextDueDate          time.Time  `json:"next_due_date"`
	IntervalDays         int        `json:"interval_days"`
	MasteryStage         int        `json:"mastery_stage"`
	MasteryLabel         string     `json:"mastery_label"`
	ConsecutiveSuccesses int        `json:"consecutive_successes"`
	LastOutcome          *string    `json:"last_outcome"`
	LastAttemptedAt      *time.Time `json:"last_attempted_at"`
}

// ProblemDetailResponse is a problem together with its attempts, newest first.
type ProblemDetailResponse struct {
	ProblemResponse
	Attempts []AttemptResponse `json:"attempts"`
}

// AttemptResponse is a single attempt log entry.
type AttemptResponse struct {
	ID               int       `json:"id"`
	ProblemID        int       `json:"problem_id"`
	AttemptedAt      time.Time `json:"attempted_at"`
	Outcome          string    `json:"outcome"`
	TimeSpentMinutes *int      `json:"time_spent_minutes"`
	Notes            *string   `json:"notes"`
	StageBefore      int       `json:"stage_before"`
	StageAfter       int       `json:"stage_after"`
	NextDueDateAfter time.Time `json:"next_due_date_after"`
}

// HistoryAttemptResponse is an attempt with its problem's title and
// difficulty.
type HistoryAttemptResponse struct {
	ID                int       `json:"id"`
	ProblemID         int       `json:"problem_id"`
	ProblemTitle      string    `json:"problem_title"`
	ProblemDifficulty string    `json:"problem_difficulty"`
	AttemptedAt       time.Time `json:"attempted_at"`
	Outcome           string    `json:"outcome"`
	TimeSpentMinutes  *int      `json:"time_spent_minutes"`
	StageBefore       int       `json:"stage_before"`
	StageAfter        int       `json:"stage_after"`
}

// HistoryResponse is one page of the attempt history and the total match count.
type HistoryResponse struct {
	Attempts []HistoryAttemptResponse `json:"attempts"`
	Total    int                      `json:"total"`
}

// TodayResponse is the review queue for the current day.
type TodayResponse struct {
	Due []ProblemResponse `json:"due"`
	New []ProblemResponse `json:"new"`
}

// TagStatsResponse holds the graded attempt counts for one tag.
type TagStatsResponse struct {
	Tag           string  `json:"tag"`
	TotalAttempts int     `json:"total_attempts"`
	FailRate      float64 `json:"fail_rate"`
}

// StatsResponse is the dashboard summary.
type StatsResponse struct {
	TotalProblems      int                `json:"total_problems"`
	DueToday           int                `json:"due_today"`
	Overdue            int                `json:"overdue"`
	AttemptsLast7Days  int                `json:"attempts_last_7_days"`
	AttemptsLast30Days int                `json:"attempts_last_30_days"`
	WeakTags           []TagStatsResponse `json:"weak_tags"`
}

// NewProblemResponse converts a stored problem to its wire form.
func NewProblemResponse(p *store.Problem) ProblemResponse {
	s := p.Schedule
	resp := ProblemResponse{
		ID:                   p.ID,
		Title:                p.Title,
		Platform:             p.Platform,
		URL:                  optional(p.URL),
		Difficulty:           string(p.Difficulty),
		Tags:                 p.Tags,
		NotesTrick:           optional(p.NotesTrick),
		NotesMistakes:        optional(p.NotesMistakes),
		NotesEdgeCases:       optional(p.NotesEdgeCases),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
		NextDueDate:          s.NextDueDate,
		IntervalDays:         s.IntervalDays,
		MasteryStage:         s.MasteryStage,
		MasteryLabel:         s.Label(),
		ConsecutiveSuccesses: s.ConsecutiveSuccesses,
		LastOutcome:          optionalOutcome(s.LastOutcome),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if !s.LastAttemptedAt.IsZero() {
		t := s.LastAttemptedAt
		resp.LastAttemptedAt = &t
	}
	return resp
}

// NewProblemResponses converts a list of problems. It never returns nil.
func NewProblemResponses(ps []*store.Problem) []ProblemResponse {
	out := make([]ProblemResponse, len(ps))
	for i, p := range ps {
		out[i] = NewProblemResponse(p)
	}
	return out
}

// NewProblemDetailResponse converts a problem and its attempts.
func NewProblemDetailResponse(d *tracker.ProblemDetail) ProblemDetailResponse {
	attempts := make([]AttemptResponse, len(d.Attempts))
	for i, a := range d.Attempts {
		attempts[i] = NewAttemptResponse(a)
	}
	return ProblemDetailResponse{
		ProblemResponse: NewProblemResponse(d.Problem),
		Attempts:        attempts,
	}
}

// NewAttemptResponse converts a stored attempt.
func NewAttemptResponse(a *store.Attempt) AttemptResponse {
	return AttemptResponse{
		ID:               a.ID,
		ProblemID:        a.ProblemID,
		AttemptedAt:      a.AttemptedAt,
		Outcome:          a.Outcome.String(),
		TimeSpentMinutes: a.TimeSpentMinutes,
		Notes:            optional(a.Notes),
		StageBefore:      a.StageBefore,
		StageAfter:       a.StageAfter,
		NextDueDateAfter: a.NextDueDateAfter,
	}
}

// NewTodayResponse converts the today queue.
func NewTodayResponse(q *tracker.TodayQueue) TodayResponse {
	return TodayResponse{
		Due: NewProblemResponses(q.Due),
		New: NewProblemResponses(q.New),
	}
}

// NewHistoryResponse converts a history page.
func NewHistoryResponse(page *tracker.HistoryPage) HistoryResponse {
	out := HistoryResponse{
		Attempts: make([]HistoryAttemptResponse, len(page.Attempts)),
		Total:    page.Total,
	}
	for i, e := range page.Attempts {
		out.Attempts[i] = HistoryAttemptResponse{
			ID:                e.ID,
			ProblemID:         e.ProblemID,
			ProblemTitle:      e.ProblemTitle,
			ProblemDifficulty: string(e.ProblemDifficulty),
			AttemptedAt:       e.AttemptedAt,
			Outcome:           e.Outcome.String(),
			TimeSpentMinutes:  e.TimeSpentMinutes,
			StageBefore:       e.StageBefore,
			StageAfter:        e.StageAfter,
		}
	}
	return out
}

// NewStatsResponse converts the aggregated stats.
func NewStatsResponse(st *tracker.Stats) StatsResponse {
	out := StatsResponse{
		TotalProblems:      st.TotalProblems,
		DueToday:           st.DueToday,
		Overdue:            st.Overdue,
		AttemptsLast7Days:  st.AttemptsLast7Days,
		AttemptsLast30Days: st.AttemptsLast30Days,
		WeakTags:           make([]TagStatsResponse, len(st.WeakTags)),
	}
	for i, ts := range st.WeakTags {
		out.WeakTags[i] = TagStatsResponse{Tag: ts.Tag, TotalAttempts: ts.TotalAttempts, FailRate: ts.FailRate}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalOutcome(o spacedrep.Outcome) *string {
	if !o.IsValid() {
		return nil
	}
	return optional(o.String())
}
