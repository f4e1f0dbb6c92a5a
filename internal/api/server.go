// Package api serves the tracker over a JSON REST interface.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/abhisek/leetreview/internal/config"
	"github.com/abhisek/leetreview/internal/tracker"
)

// Server routes HTTP requests to the tracker service.
type Server struct {
	svc     *tracker.Service
	log     zerolog.Logger
	origins []string
}

// NewServer creates a Server. Requests from origins are allowed by CORS;
// "*" allows any origin.
func NewServer(svc *tracker.Service, log zerolog.Logger, origins []string) *Server {
	return &Server{svc: svc, log: log, origins: origins}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/problems", s.handleListProblems)
	mux.HandleFunc("POST /api/problems", s.handleCreateProblem)
	mux.HandleFunc("GET /api/problems/{id}", s.handleGetProblem)
	mux.HandleFunc("PUT /api/problems/{id}", s.handleUpdateProblem)
	mux.HandleFunc("DELETE /api/problems/{id}", s.handleDeleteProblem)
	mux.HandleFunc("POST /api/problems/{id}/attempt", s.handleLogAttempt)
	mux.HandleFunc("POST /api/problems/{id}/postpone", s.handlePostpone)

	mux.HandleFunc("GET /api/today", s.handleToday)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/history", s.handleHistory)

	var h http.Handler = mux
	h = Recover(h)
	h = CORS(s.origins)(h)
	h = SecureHeaders(h)
	h = AccessLog(h)
	h = RequestID(s.log)(h)
	return h
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts
// down gracefully within cfg.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, cfg)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, cfg config.ServerConfig) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("api listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("api shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
