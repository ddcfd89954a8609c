// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/bandit-demo/auth"
	"github.com/danielhkuo/bandit-demo/bandit"
	"github.com/danielhkuo/bandit-demo/cliparse"
	"github.com/danielhkuo/bandit-demo/metrics"
	"github.com/danielhkuo/bandit-demo/middleware"
	"github.com/danielhkuo/bandit-demo/models"
	"github.com/danielhkuo/bandit-demo/session"
)

type SessionHandler struct {
	store session.Store
	cfg   cliparse.Config
}

func NewSessionHandler(store session.Store, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{store: store, cfg: cfg}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	// An empty body asks for the default budget
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	budget := req.TokenBudget
	if budget == 0 {
		budget = h.cfg.TokenBudget
	}
	if budget < 1 || budget > bandit.MaxBudget {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("token_budget must be between 1 and %d", bandit.MaxBudget))
		return
	}

	meta := session.Meta{
		IPHash:    auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionKeySalt),
		UserAgent: r.UserAgent(),
	}

	s, err := h.store.Create(r.Context(), budget, meta)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	metrics.SessionsCreated.Inc()
	metrics.SessionsActive.Inc()
	slog.Info("session created", "session_id", s.ID, "token_budget", budget)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionKey:  auth.GenerateSessionKey(s.ID, h.cfg.SessionKeySalt),
		SessionView: models.NewSessionView(s.ID, s.CreatedAt, s.LastActiveAt, s.Ledger),
	})
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.store.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to load session", "error", err, "session_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.NewSessionView(s.ID, s.CreatedAt, s.LastActiveAt, s.Ledger))
}

// Play handles POST /sessions/{id}/plays
func (h *SessionHandler) Play(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, id) {
		return
	}

	var req models.PlayRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Bandit == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "bandit is required")
		return
	}

	b, err := bandit.Parse(req.Bandit)
	if err != nil || !b.Valid() {
		metrics.PlaysTotal.WithLabelValues("invalid", metrics.ResultRejected).Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown bandit: "+req.Bandit)
		return
	}

	s, played, err := h.store.Play(r.Context(), id, b)
	if errors.Is(err, session.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to play", "error", err, "session_id", id, "bandit", b)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to play")
		return
	}

	latest := s.Ledger.Latest()
	if played {
		metrics.PlaysTotal.WithLabelValues(b.String(), metrics.ResultPlayed).Inc()
		metrics.Payout.WithLabelValues(b.String()).Observe(float64(latest.Payout))
		slog.Info("bandit played",
			"session_id", id,
			"bandit", b,
			"payout", latest.Payout,
			"tokens_remaining", latest.TokensRemaining,
		)
	} else {
		metrics.PlaysTotal.WithLabelValues(b.String(), metrics.ResultExhausted).Inc()
	}

	middleware.JSONResponse(w, http.StatusOK, models.PlayResponse{
		Played:      played,
		SessionView: models.NewSessionView(s.ID, s.CreatedAt, s.LastActiveAt, s.Ledger),
	})
}

// EndSession handles DELETE /sessions/{id}
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, id) {
		return
	}

	err := h.store.End(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to end session", "error", err, "session_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to end session")
		return
	}

	metrics.SessionsEnded.WithLabelValues("closed").Inc()
	metrics.SessionsActive.Dec()
	slog.Info("session ended", "session_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// sessionID reads and validates the {id} path value, writing a 400 on failure
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return "", false
	}
	id, err := auth.ParseSessionID(raw)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid session id")
		return "", false
	}
	return id, true
}

// authorize checks the X-Session-Key header, writing a 401 on failure
func (h *SessionHandler) authorize(w http.ResponseWriter, r *http.Request, id string) bool {
	key := r.Header.Get("X-Session-Key")
	if key == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-Key header required")
		return false
	}
	if err := auth.ValidateSessionKey(id, key, h.cfg.SessionKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid session key")
		return false
	}
	return true
}
