// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homeval/homeval/pkg/metrics"
)

// HealthHandler serves the operational Prometheus registry. It is distinct
// from GET /metrics, which reports the business counter clients consume.
// Answering at all means the process is serving; scrapers get the full
// exposition in the body.
type HealthHandler struct {
	exposition http.Handler
}

// NewHealthHandler builds the exposition handler once and reuses it across
// requests.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		exposition: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.exposition.ServeHTTP(w, r)
}
