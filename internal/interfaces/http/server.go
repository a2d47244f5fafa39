// Package http exposes the assessment engine over a small JSON API plus
// Prometheus metrics and a websocket alert stream. Persistence and caching
// are optional collaborators; the server degrades to pure compute without
// them.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/retailscan/retailscan/internal/engine"
	"github.com/retailscan/retailscan/internal/normalize"
	"github.com/retailscan/retailscan/internal/store"
)

// Cache serves and stores the latest assessment per symbol.
type Cache interface {
	PutAssessment(ctx context.Context, a *engine.Assessment) error
	GetAssessment(ctx context.Context, symbol string) (*engine.Assessment, error)
}

// Watchlist is the persistence surface the API needs.
type Watchlist interface {
	AddSymbol(ctx context.Context, symbol, notes string) error
	RemoveSymbol(ctx context.Context, symbol string) error
	ListSymbols(ctx context.Context, activeOnly bool) ([]store.WatchlistEntry, error)
}

// Server routes API traffic to the engine and its collaborators.
type Server struct {
	engine    *engine.Engine
	cache     Cache
	watchlist Watchlist
	hub       *Hub
	router    *mux.Router
}

// Option configures optional collaborators.
type Option func(*Server)

// WithCache attaches an assessment cache.
func WithCache(c Cache) Option {
	return func(s *Server) { s.cache = c }
}

// WithWatchlist attaches watchlist persistence.
func WithWatchlist(w Watchlist) Option {
	return func(s *Server) { s.watchlist = w }
}

// NewServer builds the router around a validated engine.
func NewServer(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{
		engine: eng,
		hub:    NewHub(),
		router: mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/assess", s.handleAssess).Methods(http.MethodPost)
	v1.HandleFunc("/assessments/{symbol}", s.handleGetAssessment).Methods(http.MethodGet)
	v1.HandleFunc("/watchlist", s.handleListWatchlist).Methods(http.MethodGet)
	v1.HandleFunc("/watchlist", s.handleAddWatchlist).Methods(http.MethodPost)
	v1.HandleFunc("/watchlist/{symbol}", s.handleRemoveWatchlist).Methods(http.MethodDelete)
	v1.HandleFunc("/stream", s.hub.HandleStream).Methods(http.MethodGet)
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// assessResponse pairs the assessment with its derived alerts.
type assessResponse struct {
	Assessment *engine.Assessment `json:"assessment"`
	Alerts     []engine.Alert     `json:"alerts"`
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var snap normalize.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "malformed snapshot payload")
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(snap.Symbol))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	assessment, err := s.engine.Assess(symbol, snap.Components())
	if err != nil {
		assessmentsTotal.WithLabelValues("rejected").Inc()
		var inputErr *engine.InvalidInputError
		if errors.As(err, &inputErr) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	alerts := s.engine.AlertsFor(assessment)
	assessmentsTotal.WithLabelValues("ok").Inc()
	for _, a := range alerts {
		alertsGenerated.WithLabelValues(string(a.Priority)).Inc()
	}
	assessDuration.Observe(time.Since(started).Seconds())

	if s.cache != nil {
		if err := s.cache.PutAssessment(r.Context(), assessment); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("assessment cache write failed")
		}
	}
	s.hub.Broadcast(alerts)

	writeJSON(w, http.StatusOK, assessResponse{Assessment: assessment, Alerts: alerts})
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeError(w, http.StatusNotImplemented, "assessment cache not configured")
		return
	}
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	assessment, err := s.cache.GetAssessment(r.Context(), symbol)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no assessment for "+symbol)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("assessment cache read failed")
		writeError(w, http.StatusInternalServerError, "cache unavailable")
		return
	}
	writeJSON(w, http.StatusOK, assessResponse{Assessment: assessment, Alerts: s.engine.AlertsFor(assessment)})
}

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	if s.watchlist == nil {
		writeError(w, http.StatusNotImplemented, "watchlist store not configured")
		return
	}
	activeOnly := r.URL.Query().Get("all") == ""
	entries, err := s.watchlist.ListSymbols(r.Context(), activeOnly)
	if err != nil {
		log.Error().Err(err).Msg("watchlist list failed")
		writeError(w, http.StatusInternalServerError, "watchlist unavailable")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type addWatchlistRequest struct {
	Symbol string `json:"symbol"`
	Notes  string `json:"notes"`
}

func (s *Server) handleAddWatchlist(w http.ResponseWriter, r *http.Request) {
	if s.watchlist == nil {
		writeError(w, http.StatusNotImplemented, "watchlist store not configured")
		return
	}
	var req addWatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed watchlist payload")
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	if err := s.watchlist.AddSymbol(r.Context(), symbol, req.Notes); err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("watchlist add failed")
		writeError(w, http.StatusInternalServerError, "watchlist unavailable")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"symbol": symbol})
}

func (s *Server) handleRemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	if s.watchlist == nil {
		writeError(w, http.StatusNotImplemented, "watchlist store not configured")
		return
	}
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	err := s.watchlist.RemoveSymbol(r.Context(), symbol)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, symbol+" not on watchlist")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("watchlist remove failed")
		writeError(w, http.StatusInternalServerError, "watchlist unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
