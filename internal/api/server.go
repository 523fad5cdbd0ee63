// Package api exposes game sessions over HTTP and WebSocket.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/metrics"
	"github.com/zappabad/bullrun/internal/portfolio"
	"github.com/zappabad/bullrun/internal/session"
)

// Options configures the API server.
type Options struct {
	// SessionDefaults is the base config applied to new sessions; the
	// create request may override difficulty and seed.
	SessionDefaults session.Config
	// MaxSessions caps concurrently live sessions.
	MaxSessions int
}

// Server routes HTTP requests to game sessions.
type Server struct {
	opts Options
	log  *slog.Logger
	reg  *registry
	mux  *chi.Mux
}

func New(opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 256
	}
	s := &Server{
		opts: opts,
		log:  logger,
		reg:  newRegistry(logger, opts.MaxSessions),
		mux:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Shutdown closes every live session.
func (s *Server) Shutdown() {
	s.reg.closeAll()
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.reg.count()})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/trades", s.handleTrade)
			r.Post("/pause", s.handleTogglePause)
			r.Post("/end", s.handleEndSession)
			r.Post("/opportunity/accept", s.handleAcceptOpportunity)
			r.Get("/ws", s.handleSessionWS)
		})
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Difficulty string `json:"difficulty"`
		Seed       int64  `json:"seed"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := s.opts.SessionDefaults
	if in.Difficulty != "" {
		cfg.Difficulty = catalog.Difficulty(in.Difficulty)
	}
	if in.Seed != 0 {
		cfg.Seed = in.Seed
	}
	cfg.Logger = s.log

	sess, err := session.New(cfg)
	if err != nil {
		if errors.Is(err, session.ErrUnknownDifficulty) {
			writeError(w, http.StatusBadRequest, "unknown difficulty")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	id, err := s.reg.add(sess)
	if err != nil {
		sess.Close()
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.log.Info("session created", "session", id.String(), "difficulty", cfg.Difficulty.String())
	writeJSON(w, http.StatusCreated, toSnapshotDTO(id.String(), snap))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFromURL(w, r)
	if !ok {
		return
	}
	snap, err := e.sess.Snapshot(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(e.id.String(), snap))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	if err := s.reg.remove(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.Info("session closed", "session", id.String())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFromURL(w, r)
	if !ok {
		return
	}

	var in struct {
		Asset  string    `json:"asset"`
		Action string    `json:"action"`
		Amount amountDTO `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	action, ok := portfolio.ParseAction(strings.ToLower(in.Action))
	if !ok {
		writeError(w, http.StatusBadRequest, "action must be one of: buy, sell, short, cover")
		return
	}
	amount, err := in.Amount.toSpec()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := e.sess.Trade(r.Context(), catalog.AssetID(in.Asset), action, amount)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTradeResultDTO(res))
}

func (s *Server) handleTogglePause(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFromURL(w, r)
	if !ok {
		return
	}
	snap, err := e.sess.TogglePause(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(e.id.String(), snap))
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFromURL(w, r)
	if !ok {
		return
	}
	snap, err := e.sess.End(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(e.id.String(), snap))
}

func (s *Server) handleAcceptOpportunity(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFromURL(w, r)
	if !ok {
		return
	}
	res, err := e.sess.AcceptOpportunity(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTradeResultDTO(res))
}

func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessionFromURL(w, r)
	if !ok {
		return
	}
	e.hub.handleWS(w, r)
}

func (s *Server) sessionFromURL(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	e, err := s.reg.get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return e, true
}

// writeSessionError maps domain errors to HTTP statuses.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, portfolio.ErrInvalidAmount),
		errors.Is(err, portfolio.ErrUnknownAsset):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, portfolio.ErrInsufficientFunds),
		errors.Is(err, portfolio.ErrInsufficientHoldings),
		errors.Is(err, portfolio.ErrNoActivePosition),
		errors.Is(err, portfolio.ErrShortAlreadyOpen),
		errors.Is(err, session.ErrSessionPaused),
		errors.Is(err, session.ErrSessionOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNoOpportunity):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrClosed):
		writeError(w, http.StatusGone, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON parses the request body; an empty body decodes to the
// zero value.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
