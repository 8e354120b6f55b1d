package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/prospect/internal/domain/model"
	"github.com/okian/prospect/internal/domain/types"
)

// PlayerDependencies defines the interface for player lookups.
type PlayerDependencies interface {
	Suggest(ctx context.Context, q string) []string
	ScoreByIdentity(ctx context.Context, name string) (model.ScoredPrediction, error)
	RankWithinCohort(ctx context.Context, name string, cluster model.ClusterID, lo, hi int) (model.CohortRating, error)
	Compare(ctx context.Context, a, b string) (types.Comparison, error)
}

// PlayerHandler handles per-player requests.
type PlayerHandler struct {
	deps               PlayerDependencies
	cohortLo, cohortHi int
}

// NewPlayerHandler creates a new player handler; lo and hi are the default
// rating window.
func NewPlayerHandler(deps PlayerDependencies, lo, hi int) *PlayerHandler {
	return &PlayerHandler{deps: deps, cohortLo: lo, cohortHi: hi}
}

// HandleSuggest handles GET /players/suggest?q= requests.
func (h *PlayerHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Suggest(r.Context(), r.URL.Query().Get("q")))
}

// HandleRating handles GET /players/{name}/rating?cluster=&from=&to= requests.
// cluster defaults to the player's own cluster.
func (h *PlayerHandler) HandleRating(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_rating"
	name := strings.TrimSpace(pathParam(r, "name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	lo, err := queryInt(r, "from", h.cohortLo)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, err, errors.New("invalid from")))
		return
	}
	hi, err := queryInt(r, "to", h.cohortHi)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, err, errors.New("invalid to")))
		return
	}

	var cluster model.ClusterID
	if raw := r.URL.Query().Get("cluster"); raw != "" {
		if cluster, err = model.ParseClusterID(raw); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	} else {
		pred, err := h.deps.ScoreByIdentity(r.Context(), name)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		cluster = pred.Cluster
	}

	rating, err := h.deps.RankWithinCohort(r.Context(), name, cluster, lo, hi)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

// HandleCompare handles GET /compare?a=&b= requests.
func (h *PlayerHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	a := strings.TrimSpace(r.URL.Query().Get("a"))
	b := strings.TrimSpace(r.URL.Query().Get("b"))
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("a and b are required")))
		return
	}
	cmp, err := h.deps.Compare(r.Context(), a, b)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}
