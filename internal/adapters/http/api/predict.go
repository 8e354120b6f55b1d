package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okian/prospect/internal/domain/features"
	"github.com/okian/prospect/internal/domain/model"
	"github.com/okian/prospect/internal/domain/types"
)

// maxBodyBytes bounds prediction request bodies.
const maxBodyBytes = 1 << 20

// clusterKey is the manual-input field naming the model.
const clusterKey = "cluster"

// PredictDependencies defines the interface for prediction operations.
type PredictDependencies interface {
	Report(ctx context.Context, name string) (types.Report, error)
	ScoreManual(ctx context.Context, cluster model.ClusterID, raw features.Values) (model.ScoredPrediction, error)
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps PredictDependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// playerRequest is the body of POST /predict/player.
type playerRequest struct {
	PlayerName string `json:"player_name"`
}

// HandlePredictPlayer handles POST /predict/player requests.
func (h *PredictHandler) HandlePredictPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_player"
	var req playerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing player_name")))
		return
	}
	report, err := h.deps.Report(r.Context(), name)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandlePredictManual handles POST /predict/manual requests. The body is a flat
// object: "cluster" plus one numeric entry per feature. Unparsable feature
// values count as 0.
func (h *PredictHandler) HandlePredictManual(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_manual"
	cluster, raw, err := decodeManual(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	pred, err := h.deps.ScoreManual(r.Context(), cluster, raw)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

func decodeManual(body io.Reader) (model.ClusterID, features.Values, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var in map[string]any
	if err := dec.Decode(&in); err != nil {
		return 0, nil, err
	}
	rawCluster, ok := in[clusterKey]
	if !ok {
		return 0, nil, fmt.Errorf("missing %s", clusterKey)
	}
	delete(in, clusterKey)

	cluster, err := model.ParseClusterID(strings.TrimSpace(fmt.Sprint(rawCluster)))
	if err != nil {
		return 0, nil, fmt.Errorf("invalid %s %v", clusterKey, rawCluster)
	}
	return cluster, features.ParseRaw(in), nil
}
