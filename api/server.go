// Package api serves the dashboard query API: a read-only view over the
// journal of completed backtest runs. It never mutates engine state.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/backtester/journal"
)

// Store is the journal surface the API reads from.
type Store interface {
	ListRuns(limit int) ([]journal.RunRecord, error)
	GetRun(runID string) (journal.RunRecord, error)
	TradesByRun(runID string) ([]journal.TradeRecord, error)
	EquityByRun(runID string) ([]journal.EquityRecord, error)
}

type Server struct {
	store Store
	log   zerolog.Logger
	http  *http.Server
}

func NewServer(addr string, store Store, log zerolog.Logger) *Server {
	s := &Server{store: store, log: log}
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	r.Use(s.requestLogger)

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/runs", s.handleListRuns).Methods(http.MethodGet)
	r.HandleFunc("/api/runs/{id}", s.handleGetRun).Methods(http.MethodGet)
	r.HandleFunc("/api/runs/{id}/trades", s.handleRunTrades).Methods(http.MethodGet)
	r.HandleFunc("/api/runs/{id}/equity", s.handleRunEquity).Methods(http.MethodGet)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("api listening")
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []journal.RunRecord{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(mux.Vars(r)["id"])
	if errors.Is(err, journal.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleRunTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.store.TradesByRun(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if trades == nil {
		trades = []journal.TradeRecord{}
	}
	s.writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleRunEquity(w http.ResponseWriter, r *http.Request) {
	equity, err := s.store.EquityByRun(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if equity == nil {
		equity = []journal.EquityRecord{}
	}
	s.writeJSON(w, http.StatusOK, equity)
}
