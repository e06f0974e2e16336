// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/homeval/homeval/internal/domain/housing"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Predict derives features for req, scores them, and records the
	// served prediction. The returned value is what the client received.
	Predict(ctx context.Context, req housing.PredictionRequest) (float64, error)

	// TotalPredictions reports how many predictions the store holds.
	TotalPredictions(ctx context.Context) (int64, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler    *RootHandler
	predictHandler *PredictHandler
	metricsHandler *MetricsHandler
	healthHandler  *HealthHandler
}

// NewServer creates a new API server with all handlers. maxBodyBytes caps
// request bodies on POST /predict.
func NewServer(deps Dependencies, maxBodyBytes int64) *Server {
	return &Server{
		rootHandler:    NewRootHandler(),
		predictHandler: NewPredictHandler(deps, maxBodyBytes),
		metricsHandler: NewMetricsHandler(deps),
		healthHandler:  NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
	r.Post("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	r.Get("/metrics", MetricsMiddleware(s.metricsHandler.HandleMetrics, "metrics"))
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// fieldDetail is one named-field failure inside a validation error response.
type fieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeValidationError(w http.ResponseWriter, message string, fields []fieldDetail) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    "validation_error",
		Message: message,
		Details: fields,
	})
}

// wrapOp tags an error with the handler operation that produced it.
func wrapOp(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
