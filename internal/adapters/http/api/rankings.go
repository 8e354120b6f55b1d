package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/prospect/internal/domain/types"
)

// defaultRankingsLimit is used when GET /rankings omits limit.
const defaultRankingsLimit = 50

// RankingDependencies defines the interface for ranked listings.
type RankingDependencies interface {
	YearRankings(ctx context.Context, year, limit int) ([]types.Entry, error)
	DraftClass(ctx context.Context, year int) ([]types.Entry, error)
	LotteryPicks(ctx context.Context) []types.Entry
	DraftSteals(ctx context.Context, limit int) []types.Entry
}

// RankingsHandler handles listing requests.
type RankingsHandler struct {
	deps     RankingDependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingDependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleYearRankings handles GET /rankings?year=Y&limit=N requests.
func (h *RankingsHandler) HandleYearRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.year_rankings"
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	n, ok := h.limit(w, r, op, defaultRankingsLimit)
	if !ok {
		return
	}
	entries, err := h.deps.YearRankings(r.Context(), year, n)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleDraftClass handles GET /draft/{year} requests.
func (h *RankingsHandler) HandleDraftClass(w http.ResponseWriter, r *http.Request) {
	const op = "api.draft_class"
	year, err := strconv.Atoi(pathParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.DraftClass(r.Context(), year)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleLottery handles GET /draft/lottery requests.
func (h *RankingsHandler) HandleLottery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.LotteryPicks(r.Context()))
}

// HandleSteals handles GET /draft/steals?limit=N requests.
func (h *RankingsHandler) HandleSteals(w http.ResponseWriter, r *http.Request) {
	n, ok := h.limit(w, r, "api.draft_steals", 0)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.DraftSteals(r.Context(), n))
}

// limit parses ?limit. When absent, def capped at the configured maximum is
// used; only limits the client sent can be rejected. Writes the error response itself.
func (h *RankingsHandler) limit(w http.ResponseWriter, r *http.Request, op string, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return min(def, h.maxLimit), true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return 0, false
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return 0, false
	}
	return n, true
}
