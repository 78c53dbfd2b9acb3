// Package server exposes the insight pipeline over an HTTP JSON API for
// the browser dashboard.
package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/gitboard/gitboard/internal/domain"
)

// InsightService runs one query session to a terminal state.
type InsightService interface {
	Query(ctx context.Context, login string) *domain.Session
}

// Server routes dashboard API requests and holds the latest committed
// session.
type Server struct {
	service InsightService
	logger  *logrus.Logger
	metrics *Metrics
	router  *mux.Router

	mu     sync.Mutex
	latest *domain.Session
}

// New creates a Server with its routes and metrics registered.
func New(service InsightService, logger *logrus.Logger) *Server {
	s := &Server{
		service: service,
		logger:  logger,
		metrics: NewMetrics(),
	}
	s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(CORSMiddleware)

	r.HandleFunc("/api/v1/insight/{login}", s.handleInsight).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/session", s.handleLatestSession).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.router = r
}

// handleInsight runs a full query session for the login path variable
// and returns the terminal session as JSON. Failed sessions map the
// classified error onto an HTTP status but still carry the session body
// so the dashboard can render the single error message.
func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	login := mux.Vars(r)["login"]
	session := s.service.Query(r.Context(), login)
	s.commit(session)
	s.metrics.SessionsTotal.WithLabelValues(string(session.State)).Inc()

	status := http.StatusOK
	if session.State == domain.StateFailed {
		status = statusForError(session.Err)
	}
	writeJSON(w, status, session)
}

// handleLatestSession returns the most recent committed session, so a
// freshly opened dashboard can render the current state without
// re-querying upstream.
func (s *Server) handleLatestSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	latest := s.latest
	s.mu.Unlock()
	if latest == nil {
		writeErrorMessage(w, http.StatusNotFound, "no session has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// commit installs the session as the latest unless a newer session has
// already committed. Overlapping queries both run to completion, but a
// stale one can never overwrite a fresher result.
func (s *Server) commit(session *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.Supersedes(s.latest) {
		s.latest = session
		return
	}
	s.logger.WithFields(logrus.Fields{
		"session": session.ID,
		"latest":  s.latest.ID,
	}).Debug("discarding stale session result")
}

func statusForError(err error) int {
	kind, ok := domain.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrRateLimited:
		return http.StatusTooManyRequests
	case domain.ErrTimeout:
		return http.StatusGatewayTimeout
	case domain.ErrNetwork, domain.ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
