package api

import (
	"context"
	"net/http"

	"github.com/okian/prospect/internal/domain/model"
	"github.com/okian/prospect/internal/domain/types"
)

// ClusterDependencies defines the interface for cluster descriptions.
type ClusterDependencies interface {
	Clusters(ctx context.Context) []types.ClusterInfo
	ClusterInfo(ctx context.Context, id model.ClusterID) (types.ClusterInfo, error)
}

// ClusterHandler handles cluster requests.
type ClusterHandler struct {
	deps ClusterDependencies
}

// NewClusterHandler creates a new cluster handler.
func NewClusterHandler(deps ClusterDependencies) *ClusterHandler {
	return &ClusterHandler{deps: deps}
}

// HandleList handles GET /clusters requests.
func (h *ClusterHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Clusters(r.Context()))
}

// HandleGet handles GET /clusters/{id} requests.
func (h *ClusterHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.cluster"
	id, err := model.ParseClusterID(pathParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	info, err := h.deps.ClusterInfo(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
