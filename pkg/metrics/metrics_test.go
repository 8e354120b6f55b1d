package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register every collector", func() {
				So(manager, ShouldNotBeNil)
				manager.predictions.WithLabelValues("manual", "ok").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metric names carry the namespace and labels", func() {
				manager.cohortMisses.Inc()
				expected := `
# HELP test_namespace_test_subsystem_cohort_misses_total Ratings where the player was not found in the comparison population
# TYPE test_namespace_test_subsystem_cohort_misses_total counter
test_namespace_test_subsystem_cohort_misses_total{env="test"} 1
`
				err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_namespace_test_subsystem_cohort_misses_total")
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording prediction metrics", func() {
			before := testutil.ToFloat64(globalManager.predictions.WithLabelValues("identity", "ok"))
			RecordPrediction("identity", "ok")

			Convey("Then the counter increases", func() {
				So(testutil.ToFloat64(globalManager.predictions.WithLabelValues("identity", "ok")), ShouldEqual, before+1)
			})
		})

		Convey("When recording gauges", func() {
			UpdateDatasetPlayers(1234)
			UpdateModelClusters(3)

			Convey("Then they hold the latest value", func() {
				So(testutil.ToFloat64(globalManager.datasetPlayers), ShouldEqual, 1234)
				So(testutil.ToFloat64(globalManager.modelClusters), ShouldEqual, 3)
			})
		})

		Convey("When recording everything else", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordScoringLatency(0.4)
					RecordCohortSize(812)
					RecordCohortMiss()
					RecordAdjustment("capped")
					RecordArtifactLoad("dataset", 12)
					RecordRepositoryQueryLatency(0.01)
					RecordHTTPRequest("rankings", "GET", "200")
					RecordHTTPRequestDuration("rankings", "GET", "200", 3)
					RecordErrorByComponent("http", "not_found")
					RecordErrorByType("not_found", "medium")
					RecordErrorByEndpoint("rankings", "GET", "not_found")
					RecordErrorLatency("http", "not_found", 1)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.2)
				}, ShouldNotPanic)
			})
		})

		Convey("Then the custom registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
