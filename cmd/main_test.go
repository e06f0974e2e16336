package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/smartystreets/goconvey/convey"

	"github.com/homeval/homeval/internal/adapters/http/api"
	"github.com/homeval/homeval/internal/adapters/http/docs"
	app "github.com/homeval/homeval/internal/app"
	"github.com/homeval/homeval/internal/config"
)

func TestStartupConfig(t *testing.T) {
	convey.Convey("Given startup environment overrides", t, func() {
		_ = os.Setenv("HOMEVAL_ADDR", ":8080")
		_ = os.Setenv("HOMEVAL_MODEL_PATH", "models/model.onnx")
		_ = os.Setenv("HOMEVAL_DATABASE_THREADS", "2")
		defer func() {
			_ = os.Unsetenv("HOMEVAL_ADDR")
			_ = os.Unsetenv("HOMEVAL_MODEL_PATH")
			_ = os.Unsetenv("HOMEVAL_DATABASE_THREADS")
		}()

		convey.Convey("When the process loads its configuration", func() {
			cfg, err := config.Load(context.Background())

			convey.Convey("Then the overrides take effect", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ModelPath, convey.ShouldEqual, "models/model.onnx")
				convey.So(cfg.DatabaseThreads, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When an override empties a required field", func() {
			_ = os.Setenv("HOMEVAL_MODEL_PATH", "")

			cfg, err := config.Load(context.Background())

			convey.Convey("Then startup must fail before serving", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestRouterAssembly(t *testing.T) {
	convey.Convey("Given the route wiring main performs", t, func() {
		svc := app.New()
		r := chi.NewRouter()
		api.NewServer(svc, 1<<20).Register(context.Background(), r)
		docs.Register(context.Background(), r)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			return w
		}

		convey.Convey("Then the static routes answer without the domain wired", func() {
			convey.So(get("/").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then unknown paths fall through to 404", func() {
			convey.So(get("/nope").Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServiceLifecycleGuards(t *testing.T) {
	convey.Convey("Given a service missing its components", t, func() {
		convey.Convey("When started without wiring", func() {
			svc := app.New()

			convey.Convey("Then it refuses with ErrNotConfigured", func() {
				convey.So(errors.Is(svc.Start(context.Background()), app.ErrNotConfigured), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When options receive nils", func() {
			svc := app.New(
				app.WithEngine(nil),
				app.WithRecorder(nil),
				app.WithStore(nil),
			)

			convey.Convey("Then the nils are ignored and Start still refuses", func() {
				convey.So(svc, convey.ShouldNotBeNil)
				convey.So(errors.Is(svc.Start(context.Background()), app.ErrNotConfigured), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When stopped without ever starting", func() {
			svc := app.New()

			convey.Convey("Then Stop is a safe no-op, repeatedly", func() {
				convey.So(svc.Stop, convey.ShouldNotPanic)
				convey.So(svc.Stop, convey.ShouldNotPanic)
			})
		})
	})
}
