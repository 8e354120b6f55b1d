// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	service "github.com/okian/prospect/internal/app"
	"github.com/okian/prospect/internal/domain/cohort"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PredictDependencies
	PlayerDependencies
	ClusterDependencies
	RankingDependencies
	StatsProvider
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLimit caps listing sizes accepted from clients.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithCohortWindow sets the default from/to years of rating lookups.
func WithCohortWindow(lo, hi int) Option {
	return func(s *Server) {
		if lo <= hi {
			s.cohortLo, s.cohortHi = lo, hi
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	maxLimit           int
	cohortLo, cohortHi int

	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	predictHandler  *PredictHandler
	playerHandler   *PlayerHandler
	clusterHandler  *ClusterHandler
	rankingsHandler *RankingsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		maxLimit: 100,
		cohortLo: cohort.DefaultYearMin,
		cohortHi: cohort.DefaultYearMax,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.predictHandler = NewPredictHandler(deps)
	s.playerHandler = NewPlayerHandler(deps, s.cohortLo, s.cohortHi)
	s.clusterHandler = NewClusterHandler(deps)
	s.rankingsHandler = NewRankingsHandler(deps, s.maxLimit)
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Post("/predict/player", MetricsMiddleware(s.predictHandler.HandlePredictPlayer, "predict_player"))
	r.Post("/predict/manual", MetricsMiddleware(s.predictHandler.HandlePredictManual, "predict_manual"))

	r.Get("/players/suggest", MetricsMiddleware(s.playerHandler.HandleSuggest, "suggest"))
	r.Get("/players/{name}/rating", MetricsMiddleware(s.playerHandler.HandleRating, "rating"))
	r.Get("/compare", MetricsMiddleware(s.playerHandler.HandleCompare, "compare"))

	r.Get("/clusters", MetricsMiddleware(s.clusterHandler.HandleList, "clusters"))
	r.Get("/clusters/{id}", MetricsMiddleware(s.clusterHandler.HandleGet, "cluster"))

	r.Get("/rankings", MetricsMiddleware(s.rankingsHandler.HandleYearRankings, "rankings"))
	r.Get("/draft/lottery", MetricsMiddleware(s.rankingsHandler.HandleLottery, "lottery"))
	r.Get("/draft/steals", MetricsMiddleware(s.rankingsHandler.HandleSteals, "steals"))
	r.Get("/draft/{year}", MetricsMiddleware(s.rankingsHandler.HandleDraftClass, "draft_class"))
}

// NewRouter returns a chi router with the common middleware stack. An empty
// origins list disables CORS headers.
func NewRouter(origins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	if ec, ok := w.(errorCoder); ok {
		ec.setErrorCode(code)
	}
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service errors to status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrBadRequest) {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	code := service.Outcome(err)
	switch code {
	case "player_not_found", "unknown_cluster", "empty_cohort":
		writeError(w, http.StatusNotFound, code, Wrap(op, err))
	case "bad_request":
		writeError(w, http.StatusBadRequest, code, Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// queryInt parses an optional integer query parameter; def is returned when absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrBadRequest
	}
	return n, nil
}

// pathParam returns a chi URL parameter decoded exactly once. chi matches on
// RawPath when it is set, so only then is the segment still escaped.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
