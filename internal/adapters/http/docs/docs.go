// Package docs serves the rendered API reference and the OpenAPI document.
package docs

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register attaches the documentation routes to r: GET /docs renders the
// reference UI, GET /openapi.yaml serves the document it renders.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Get("/docs", serveDocs)
	r.Get("/openapi.yaml", serveOpenAPI)
}

func serveDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(redocPage))
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(OpenAPI)
}

// redocPage renders the embedded document with ReDoc loaded from the CDN.
const redocPage = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Homeval API Reference</title>
    <style>body { margin: 0; padding: 0; }</style>
  </head>
  <body>
    <redoc spec-url="/openapi.yaml"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
  </body>
</html>`
