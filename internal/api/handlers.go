package api

import (
	"fmt"
	"net/http"

	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/tracker"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "LeetReview API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "healthy"})
}

// GET /api/problems?search=&difficulty=&tag=&status=&sort=
func (s *Server) handleListProblems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	problems, err := s.svc.ListProblems(r.Context(), tracker.ListOptions{
		Search:     q.Get("search"),
		Difficulty: q.Get("difficulty"),
		Tag:        q.Get("tag"),
		Status:     q.Get("status"),
		Sort:       q.Get("sort"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewProblemResponses(problems))
}

// POST /api/problems
func (s *Server) handleCreateProblem(w http.ResponseWriter, r *http.Request) {
	var req problemCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.CreateProblem(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, NewProblemResponse(p))
}

// GET /api/problems/{id}
func (s *Server) handleGetProblem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := s.svc.GetProblem(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewProblemDetailResponse(d))
}

// PUT /api/problems/{id}
func (s *Server) handleUpdateProblem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req problemUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.UpdateProblem(r.Context(), id, req.patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewProblemResponse(p))
}

// DELETE /api/problems/{id}
func (s *Server) handleDeleteProblem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.DeleteProblem(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/problems/{id}/attempt
func (s *Server) handleLogAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req attemptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	outcome, err := spacedrep.ParseOutcome(req.Outcome)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.LogAttempt(r.Context(), id, tracker.AttemptInput{
		Outcome:          outcome,
		TimeSpentMinutes: req.TimeSpentMinutes,
		Notes:            req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewAttemptResponse(a))
}

// POST /api/problems/{id}/postpone
func (s *Server) handlePostpone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.Postpone(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewProblemResponse(p))
}

// GET /api/today
func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	q, err := s.svc.Today(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewTodayResponse(q))
}

// GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewStatsResponse(st))
}

// GET /api/history?limit=&offset=&outcome=
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	opts := tracker.HistoryOptions{Outcome: r.URL.Query().Get("outcome")}

	limit, ok, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ok && limit < 1 {
		writeError(w, r, &tracker.ValidationError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", tracker.MaxHistoryLimit)})
		return
	}
	opts.Limit = limit

	if opts.Offset, _, err = queryInt(r, "offset"); err != nil {
		writeError(w, r, err)
		return
	}

	page, err := s.svc.History(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewHistoryResponse(page))
}
