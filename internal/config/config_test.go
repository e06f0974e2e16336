package config_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/homeval/homeval/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.ModelPath, convey.ShouldEqual, "models/LinearRegression.json")
			convey.So(cfg.OrtLibraryPath, convey.ShouldEqual, "")
			convey.So(cfg.PredictionLogPath, convey.ShouldEqual, "prediction_logs.log")
			convey.So(cfg.DatabasePath, convey.ShouldEqual, "predictions.db")
			convey.So(cfg.DatabaseThreads, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 1<<20)
		})
	})
}
