// Package api exposes the agent over HTTP: one endpoint to send a message
// into a thread, one to resolve a pending approval, and read-only access
// to the latest search report and thread history.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/app/executor"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/checkpoint"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/report"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
)

// Server handles the HTTP surface of the agent.
type Server struct {
	exec    *executor.Executor
	reports report.Reader
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a server. timeout bounds one conversational turn end to end.
func New(exec *executor.Executor, reports report.Reader, timeout time.Duration, log zerolog.Logger) *Server {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Server{exec: exec, reports: reports, timeout: timeout, log: log}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/threads/{threadID}/messages", s.handleMessage)
		r.Post("/threads/{threadID}/resume", s.handleResume)
		r.Get("/threads/{threadID}/history", s.handleHistory)
		r.Get("/report", s.handleReport)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/debug/vars", expvar.Handler())
	return r
}

type messageRequest struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

type resumeRequest struct {
	UserID   string `json:"user_id"`
	Decision string `json:"decision"`
}

type turnResponse struct {
	Reply        string `json:"reply,omitempty"`
	Suspended    bool   `json:"suspended"`
	Prompt       string `json:"prompt,omitempty"`
	CheckpointID string `json:"checkpoint_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		s.writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	ctx, cancel := contextWithTimeout(r, s.timeout)
	defer cancel()

	threadID := chi.URLParam(r, "threadID")
	res, err := s.exec.Invoke(ctx, threadID, req.UserID, workflow.UserMessage(req.Content))
	if err != nil {
		s.writeExecError(w, err)
		return
	}
	s.writeTurn(w, res)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	var req resumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Decision == "" {
		s.writeError(w, http.StatusBadRequest, "decision is required")
		return
	}

	ctx, cancel := contextWithTimeout(r, s.timeout)
	defer cancel()

	threadID := chi.URLParam(r, "threadID")
	res, err := s.exec.Resume(ctx, threadID, req.UserID, req.Decision)
	if err != nil {
		s.writeExecError(w, err)
		return
	}
	s.writeTurn(w, res)
}

type historyEntry struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	Pending   bool      `json:"pending"`
	NextSteps []string  `json:"next_steps"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	chain, err := s.exec.History(r.Context(), threadID)
	if errors.Is(err, checkpoint.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "unknown thread")
		return
	}
	if err != nil {
		s.writeExecError(w, err)
		return
	}

	out := make([]historyEntry, 0, len(chain))
	for _, cp := range chain {
		out = append(out, historyEntry{
			ID:        cp.ID,
			Seq:       cp.Seq,
			Pending:   cp.Pending != nil,
			NextSteps: cp.NextSteps,
			CreatedAt: cp.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	text, err := s.reports.ReadReport(r.Context())
	if errors.Is(err, report.ErrNoReport) {
		s.writeError(w, http.StatusNotFound, "no report available")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("report read failed")
		s.writeError(w, http.StatusInternalServerError, "report unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (s *Server) writeTurn(w http.ResponseWriter, res *executor.Result) {
	out := turnResponse{
		Suspended:    res.Suspended,
		Prompt:       res.Prompt,
		CheckpointID: res.CheckpointID,
	}
	if last, ok := res.State.LastMessage(); ok && !res.Suspended {
		out.Reply = last.Content
	}
	s.writeJSON(w, http.StatusOK, out)
}

// writeExecError maps executor failures to status codes. Protocol
// violations around the interrupt lifecycle are conflicts, bad identifiers
// are client errors, everything else is a 500.
func (s *Server) writeExecError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrInterruptPending),
		errors.Is(err, workflow.ErrNoPendingInterrupt),
		errors.Is(err, workflow.ErrRepeatedInterrupt):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkpoint.ErrInvalidThreadID):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error().Err(err).Msg("turn failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("response encoding failed")
	}
}

func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}
