// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/homeval/homeval/pkg/metrics"
)

// statusRecorder captures the status a handler writes so instrumentation can
// label metrics with it. Handlers that never call WriteHeader implicitly
// answer 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments one route: the request counts toward the
// in-flight gauge while the handler runs, and on completion it is recorded
// under its endpoint, method, and final status.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.IncHTTPInFlight()
		defer metrics.DecHTTPInFlight()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		elapsed := float64(time.Since(start).Milliseconds())

		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, elapsed)

		switch {
		case rec.status >= http.StatusInternalServerError:
			metrics.RecordErrorByEndpoint(endpoint, r.Method, "server_error")
		case rec.status >= http.StatusBadRequest:
			metrics.RecordErrorByEndpoint(endpoint, r.Method, "client_error")
		}
	}
}
