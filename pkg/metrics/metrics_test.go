package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManagerDefaults(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry))

		Convey("Then the homeval serving namespace applies", func() {
			So(m, ShouldNotBeNil)
			So(m.namespace, ShouldEqual, "homeval")
			So(m.subsystem, ShouldEqual, "serving")
		})

		Convey("Then every metric family registers without collision", func() {
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			// Vec metrics stay hidden until a label value is observed, so
			// only the plain counters, gauges, and histograms show up here.
			So(len(families), ShouldBeGreaterThanOrEqualTo, 10)
		})
	})
}

func TestNewManagerOverrides(t *testing.T) {
	Convey("Given namespace, subsystem, and bucket overrides", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithNamespace("custom"),
			WithSubsystem("scoring"),
			WithHistogramBuckets([]float64{1, 10, 100}),
			WithPrometheusRegistry(registry),
		)

		Convey("Then the overrides are applied", func() {
			So(m.namespace, ShouldEqual, "custom")
			So(m.subsystem, ShouldEqual, "scoring")
			So(m.buckets, ShouldResemble, []float64{1, 10, 100})
		})

		Convey("Then zero values keep the previous settings", func() {
			registry2 := prometheus.NewRegistry()
			m2 := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry2),
			)
			So(m2.namespace, ShouldEqual, "homeval")
			So(m2.subsystem, ShouldEqual, "serving")
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording business metrics", func() {
			So(func() {
				RecordPredictionServed()
				RecordPredictionLatency(12.5)
				RecordScoringLatency(0.4)
				RecordPredictedPrice(2.1)
				RecordValidationFailure("households")
				RecordModelMismatchError()
			}, ShouldNotPanic)
		})

		Convey("When recording model and persistence metrics", func() {
			So(func() {
				UpdateModelInfo("linear", "LinearRegression.json")
				UpdateModelFeatureCount(8)
				RecordSinkWrite("logfile")
				RecordSinkWriteError("store")
				RecordSinkWriteLatency("logfile", 1.2)
				RecordRecordLost()
				RecordStoreInsertLatency(3.0)
				RecordStoreQueryLatency(0.8)
				UpdateStoreRows(42)
				RecordStoreError()
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("predict", "POST", "200")
				RecordHTTPRequestDuration("predict", "POST", "200", 15.0)
				IncHTTPInFlight()
				DecHTTPInFlight()
				RecordErrorByComponent("repository", "unavailable")
				RecordErrorByEndpoint("predict", "POST", "validation")
			}, ShouldNotPanic)
		})

		Convey("When gathering the custom registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then registered metrics should be present", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["homeval_serving_predictions_served_total"], ShouldBeTrue)
				So(names["homeval_serving_sink_writes_total"], ShouldBeTrue)
			})
		})
	})
}
