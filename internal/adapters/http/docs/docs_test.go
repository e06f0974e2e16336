package docs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/smartystreets/goconvey/convey"
)

func TestRegisterRoutes(t *testing.T) {
	convey.Convey("Given a router with the docs routes attached", t, func() {
		router := chi.NewRouter()
		Register(context.Background(), router)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		convey.Convey("When the OpenAPI document is requested", func() {
			w := get("/openapi.yaml")

			convey.Convey("Then the embedded YAML is served verbatim", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldEqual, string(OpenAPI))
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "predicted_price")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "total_predictions")
			})
		})

		convey.Convey("When the reference page is requested", func() {
			w := get("/docs")

			convey.Convey("Then it renders ReDoc against the served document", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `spec-url="/openapi.yaml"`)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "redoc.standalone.js")
			})
		})
	})
}

func TestRegisterNilRouter(t *testing.T) {
	convey.Convey("Given no router", t, func() {
		convey.Convey("Then registration panics rather than half-wiring", func() {
			convey.So(func() { Register(context.Background(), nil) }, convey.ShouldPanic)
		})
	})
}
