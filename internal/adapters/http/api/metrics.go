// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// MetricsDependencies defines the interface for usage metrics reads.
type MetricsDependencies interface {
	TotalPredictions(ctx context.Context) (int64, error)
}

// MetricsHandler serves the aggregate prediction count.
type MetricsHandler struct {
	deps MetricsDependencies
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(deps MetricsDependencies) *MetricsHandler {
	return &MetricsHandler{deps: deps}
}

type metricsResponse struct {
	TotalPredictions int64 `json:"total_predictions"`
}

// HandleMetrics handles GET /metrics requests. The count comes from the
// store on every call, so zero means an empty store; an unreachable store
// answers 503 rather than a misleading 0.
func (h *MetricsHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	const op = "api.metrics"

	total, err := h.deps.TotalPredictions(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "metrics_unavailable", wrapOp(op, err))
		return
	}

	writeJSON(w, http.StatusOK, metricsResponse{TotalPredictions: total})
}
