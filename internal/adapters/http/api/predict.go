// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/homeval/homeval/internal/domain/housing"
	"github.com/homeval/homeval/internal/domain/predictor"
	"github.com/homeval/homeval/internal/validation"
	"github.com/homeval/homeval/pkg/metrics"
)

// PredictDependencies defines the interface for prediction operations.
type PredictDependencies interface {
	Predict(ctx context.Context, req housing.PredictionRequest) (float64, error)
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps         PredictDependencies
	maxBodyBytes int64
}

// NewPredictHandler creates a new prediction handler.
func NewPredictHandler(deps PredictDependencies, maxBodyBytes int64) *PredictHandler {
	return &PredictHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// predictionRequest mirrors the OpenAPI schema for POST /predict. Pointer
// fields distinguish absent from zero, so a missing households and
// "households": 0 report different failures.
type predictionRequest struct {
	TotalRooms       *float64 `json:"total_rooms" validate:"required"`
	TotalBedrooms    *float64 `json:"total_bedrooms" validate:"required"`
	Population       *float64 `json:"population" validate:"required"`
	Households       *float64 `json:"households" validate:"required,gt=0"`
	MedianIncome     *float64 `json:"median_income" validate:"required"`
	HousingMedianAge *float64 `json:"housing_median_age" validate:"required"`
	Latitude         *float64 `json:"latitude" validate:"required"`
	Longitude        *float64 `json:"longitude" validate:"required"`
}

type predictionResponse struct {
	PredictedPrice float64 `json:"predicted_price"`
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	dec.DisallowUnknownFields()

	var req predictionRequest
	if err := dec.Decode(&req); err != nil {
		metrics.RecordValidationFailure("body")
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, fmt.Errorf("%w: %w", ErrBadRequest, err)))
		return
	}

	if verr := validation.Struct(&req); verr != nil {
		fields := make([]fieldDetail, 0, len(verr.Fields()))
		for _, f := range verr.Fields() {
			metrics.RecordValidationFailure(f.Field)
			fields = append(fields, fieldDetail{Field: f.Field, Message: f.Message})
		}
		writeValidationError(w, verr.Error(), fields)
		return
	}

	price, err := h.deps.Predict(r.Context(), housing.PredictionRequest{
		TotalRooms:       *req.TotalRooms,
		TotalBedrooms:    *req.TotalBedrooms,
		Population:       *req.Population,
		Households:       *req.Households,
		MedianIncome:     *req.MedianIncome,
		HousingMedianAge: *req.HousingMedianAge,
		Latitude:         *req.Latitude,
		Longitude:        *req.Longitude,
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, predictionResponse{PredictedPrice: price})
}

// writeFailure translates prediction errors to HTTP statuses. Domain
// validation failures stay client errors; a feature arity drift between
// request schema and model artifact is a server fault.
func (h *PredictHandler) writeFailure(w http.ResponseWriter, err error) {
	const op = "api.predict"

	var verr *housing.ValidationError
	switch {
	case errors.As(err, &verr):
		metrics.RecordValidationFailure(verr.Field)
		writeValidationError(w, verr.Error(), []fieldDetail{{Field: verr.Field, Message: verr.Reason}})
	case errors.Is(err, housing.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "validation_error", wrapOp(op, err))
	case errors.Is(err, predictor.ErrModelMismatch):
		writeError(w, http.StatusInternalServerError, "model_mismatch", wrapOp(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", wrapOp(op, err))
	}
}
