package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/leetreview/internal/config"
	"github.com/abhisek/leetreview/internal/store"
	"github.com/abhisek/leetreview/internal/tracker"
)

var now = time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	handler http.Handler
	svc     *tracker.Service
	store   *store.Store
	logs    *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logs := &bytes.Buffer{}
	log := zerolog.New(logs)
	svc := tracker.New(st, tracker.WithClock(func() time.Time { return now }))
	srv := NewServer(svc, log, []string{"http://localhost:5173"})
	return &testEnv{handler: srv.Handler(), svc: svc, store: st, logs: logs}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *testEnv) createProblem(t *testing.T, title, difficulty string, tags ...string) ProblemResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/problems", map[string]any{
		"title":      title,
		"difficulty": difficulty,
		"tags":       tags,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[ProblemResponse](t, rec)
}

func TestRootAndHealth(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LeetReview API", decode[messageResponse](t, rec).Message)

	rec = e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[statusResponse](t, rec).Status)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestCreateAndGetProblem(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/problems", map[string]any{
		"title":       "Two Sum",
		"url":         "https://leetcode.com/problems/two-sum/",
		"difficulty":  "EASY",
		"tags":        []string{"array", "hash-map"},
		"notes_trick": "complements",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "Two Sum", created["title"])
	assert.Equal(t, "LeetCode", created["platform"])
	assert.Equal(t, "2024-01-11T10:00:00Z", created["next_due_date"])
	assert.Equal(t, float64(1), created["interval_days"])
	assert.Equal(t, "New", created["mastery_label"])
	assert.Nil(t, created["last_outcome"])
	assert.Nil(t, created["last_attempted_at"])
	assert.Nil(t, created["notes_mistakes"])

	id := int(created["id"].(float64))
	rec = e.do(t, http.MethodGet, fmt.Sprintf("/api/problems/%d", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[map[string]any](t, rec)
	assert.Equal(t, []any{"array", "hash-map"}, detail["tags"])
	assert.Equal(t, []any{}, detail["attempts"])
}

func TestCreateProblemErrors(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/problems", `{"title": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Detail, "malformed JSON")

	rec = e.do(t, http.MethodPost, "/api/problems", map[string]any{"title": "x", "difficulty": "EASY", "url": "example.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Detail, "http://")

	rec = e.do(t, http.MethodPost, "/api/problems", map[string]any{"title": "", "difficulty": "EASY"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestProblemNotFoundAndBadID(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/problems/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Problem not found", decode[errorResponse](t, rec).Detail)

	rec = e.do(t, http.MethodGet, "/api/problems/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodDelete, "/api/problems/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/problems/42/postpone", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateAndDeleteProblem(t *testing.T) {
	e := newTestEnv(t)
	p := e.createProblem(t, "Two Sum", "EASY", "array")

	rec := e.do(t, http.MethodPut, fmt.Sprintf("/api/problems/%d", p.ID), map[string]any{
		"difficulty": "MEDIUM",
		"tags":       []string{"two-pointers"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[ProblemResponse](t, rec)
	assert.Equal(t, "Two Sum", got.Title)
	assert.Equal(t, "MEDIUM", got.Difficulty)
	assert.Equal(t, []string{"two-pointers"}, got.Tags)

	rec = e.do(t, http.MethodPut, fmt.Sprintf("/api/problems/%d", p.ID), map[string]any{"difficulty": "IMPOSSIBLE"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(t, http.MethodDelete, fmt.Sprintf("/api/problems/%d", p.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = e.do(t, http.MethodGet, fmt.Sprintf("/api/problems/%d", p.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogAttempt(t *testing.T) {
	e := newTestEnv(t)
	p := e.createProblem(t, "Two Sum", "EASY")

	rec := e.do(t, http.MethodPost, fmt.Sprintf("/api/problems/%d/attempt", p.ID), map[string]any{
		"outcome":            "pass",
		"time_spent_minutes": 15,
		"notes":              "smooth",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	a := decode[AttemptResponse](t, rec)
	assert.Equal(t, "PASS", a.Outcome)
	assert.Equal(t, 0, a.StageBefore)
	assert.Equal(t, 1, a.StageAfter)
	assert.True(t, now.AddDate(0, 0, 3).Equal(a.NextDueDateAfter))
	require.NotNil(t, a.TimeSpentMinutes)
	assert.Equal(t, 15, *a.TimeSpentMinutes)

	rec = e.do(t, http.MethodGet, fmt.Sprintf("/api/problems/%d", p.ID), nil)
	detail := decode[ProblemDetailResponse](t, rec)
	assert.Equal(t, 1, detail.MasteryStage)
	require.NotNil(t, detail.LastOutcome)
	assert.Equal(t, "PASS", *detail.LastOutcome)
	assert.Len(t, detail.Attempts, 1)
}

func TestLogAttemptInvalidOutcome(t *testing.T) {
	e := newTestEnv(t)
	p := e.createProblem(t, "Two Sum", "EASY")

	for _, body := range []map[string]any{{"outcome": "BOGUS"}, {}} {
		rec := e.do(t, http.MethodPost, fmt.Sprintf("/api/problems/%d/attempt", p.ID), body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decode[errorResponse](t, rec).Detail, "invalid outcome")
	}

	rec := e.do(t, http.MethodGet, fmt.Sprintf("/api/problems/%d", p.ID), nil)
	assert.Empty(t, decode[ProblemDetailResponse](t, rec).Attempts)
}

func TestCorruptStateIsServerError(t *testing.T) {
	e := newTestEnv(t)
	p := e.createProblem(t, "Two Sum", "EASY")

	got, err := e.store.Problems().Get(context.Background(), p.ID)
	require.NoError(t, err)
	got.Schedule.IntervalDays = 0
	require.NoError(t, e.store.Problems().SaveSchedule(context.Background(), p.ID, got.Schedule, now))

	rec := e.do(t, http.MethodPost, fmt.Sprintf("/api/problems/%d/attempt", p.ID), map[string]any{"outcome": "PASS"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode[errorResponse](t, rec).Detail)
	assert.Contains(t, e.logs.String(), "corrupt scheduling state")
}

func TestPostpone(t *testing.T) {
	e := newTestEnv(t)
	p := e.createProblem(t, "Two Sum", "EASY")

	rec := e.do(t, http.MethodPost, fmt.Sprintf("/api/problems/%d/postpone", p.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[ProblemResponse](t, rec)
	assert.True(t, p.NextDueDate.AddDate(0, 0, 1).Equal(got.NextDueDate))
	assert.Nil(t, got.LastOutcome)
}

func TestListProblemsQuery(t *testing.T) {
	e := newTestEnv(t)
	e.createProblem(t, "Two Sum", "EASY", "array")
	e.createProblem(t, "Word Ladder", "HARD", "graph")

	rec := e.do(t, http.MethodGet, "/api/problems?sort=difficulty", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]ProblemResponse](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "Word Ladder", list[0].Title)

	rec = e.do(t, http.MethodGet, "/api/problems?tag=array&search=two", nil)
	list = decode[[]ProblemResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Two Sum", list[0].Title)

	rec = e.do(t, http.MethodGet, "/api/problems?status=soonish", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/problems?tag=none", nil)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestTodayStatsAndHistory(t *testing.T) {
	e := newTestEnv(t)
	a := e.createProblem(t, "Two Sum", "EASY", "array")
	e.createProblem(t, "Word Ladder", "HARD", "graph")

	for _, o := range []string{"FAIL", "SHAKY", "FAIL"} {
		rec := e.do(t, http.MethodPost, fmt.Sprintf("/api/problems/%d/attempt", a.ID), map[string]any{"outcome": o})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := e.do(t, http.MethodGet, "/api/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	today := decode[TodayResponse](t, rec)
	assert.Empty(t, today.Due)
	require.Len(t, today.New, 1)
	assert.Equal(t, "Word Ladder", today.New[0].Title)

	rec = e.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.Equal(t, float64(2), stats["total_problems"])
	assert.Equal(t, float64(3), stats["attempts_last_7_days"])
	assert.Equal(t, []any{map[string]any{"tag": "array", "total_attempts": float64(3), "fail_rate": float64(1)}}, stats["weak_tags"])

	rec = e.do(t, http.MethodGet, "/api/history?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hist := decode[HistoryResponse](t, rec)
	assert.Equal(t, 3, hist.Total)
	require.Len(t, hist.Attempts, 2)
	assert.Equal(t, "Two Sum", hist.Attempts[0].ProblemTitle)
	assert.Equal(t, "EASY", hist.Attempts[0].ProblemDifficulty)

	rec = e.do(t, http.MethodGet, "/api/history?outcome=shaky", nil)
	assert.Equal(t, 1, decode[HistoryResponse](t, rec).Total)

	for _, q := range []string{"limit=0", "limit=500", "limit=ten", "offset=-1", "outcome=MEH"} {
		rec = e.do(t, http.MethodGet, "/api/history?"+q, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, q)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPatch, "/api/problems", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/problems", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "content-type", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPropagatesToLogs(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(e.logs.Bytes()), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "/health", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
}

func TestRecoverFromPanic(t *testing.T) {
	logs := &bytes.Buffer{}
	h := RequestID(zerolog.New(logs))(AccessLog(Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "handler panic")
	assert.Contains(t, logs.String(), `"status":500`)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	e := newTestEnv(t)
	srv := NewServer(e.svc, zerolog.Nop(), nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := config.DefaultConfig().Server
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln, cfg) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
