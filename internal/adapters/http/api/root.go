// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// welcomeMessage is the root liveness payload.
const welcomeMessage = "California housing price prediction service is running"

// RootHandler serves the welcome payload at /.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

type welcomeResponse struct {
	Message string `json:"message"`
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, welcomeResponse{Message: welcomeMessage})
}
