package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"run": "r1"}),
				WithPrometheusRegistry(registry),
			)
			manager.gamesProcessed.Inc()
			manager.gameLatency.Observe(0.2)

			Convey("Then metrics are registered under the configured names", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_namespace_test_subsystem_games_processed_total"], ShouldBeTrue)
				So(names["test_namespace_test_subsystem_game_processing_milliseconds"], ShouldBeTrue)
			})

			Convey("Then the constant labels are attached", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				label := families[0].GetMetric()[0].GetLabel()[0]
				So(label.GetName(), ShouldEqual, "run")
				So(label.GetValue(), ShouldEqual, "r1")
			})
		})

		Convey("When options are empty", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "possession")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

// exposition exports the global registry and returns its text.
func exposition(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "metrics.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording a game", func() {
			RecordGameProcessed()
			RecordPossessions(200)
			RecordPlays(480)
			RecordResyncs(1)
			RecordDeferredSubstitutions(3)
			RecordTeamInference("next_event", 2)
			RecordGameLatency(12)

			Convey("Then the series are exported", func() {
				text := exposition(t)
				So(text, ShouldContainSubstring, "possession_ratings_possessions_total")
				So(text, ShouldContainSubstring, `possession_ratings_team_inferences_total{source="next_event"}`)
				So(text, ShouldContainSubstring, "possession_ratings_game_processing_milliseconds_bucket")
			})
		})

		Convey("When recording failures and pipeline state", func() {
			RecordGameFailed("pending_substitutions")
			RecordEventsDuplicate(4)
			UpdateQueueSize(7)
			UpdateQueueCapacity(64)
			RecordQueueEnqueueError("queue_full")
			UpdateWorkerCount(3)
			UpdateStoredRows(90)
			RecordBatchDuration(1.5)
			UpdateSystemMemoryUsage(1 << 20)
			UpdateSystemGoroutineCount(12)
			RecordSystemGCPauseTime(0.25)

			Convey("Then gauges hold the last value", func() {
				text := exposition(t)
				So(text, ShouldContainSubstring, `possession_ratings_games_failed_total{reason="pending_substitutions"}`)
				So(text, ShouldContainSubstring, "possession_ratings_queue_size 7\n")
				So(text, ShouldContainSubstring, "possession_ratings_queue_capacity 64\n")
				So(text, ShouldContainSubstring, "possession_ratings_worker_count 3\n")
				So(text, ShouldContainSubstring, "possession_ratings_stored_rows 90\n")
				So(text, ShouldContainSubstring, "possession_ratings_batch_duration_seconds 1.5\n")
				So(text, ShouldContainSubstring, "possession_ratings_system_memory_bytes 1.048576e+06\n")
				So(text, ShouldContainSubstring, "possession_ratings_system_goroutines 12\n")
				So(text, ShouldContainSubstring, "possession_ratings_system_gc_pause_milliseconds 0.25\n")
			})
		})

		Convey("Then the registry is the custom one", func() {
			So(GetRegistry(), ShouldEqual, customRegistry)
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given recorded metrics", t, func() {
		RecordGameProcessed()

		Convey("When exporting to a textfile", func() {
			path := filepath.Join(t.TempDir(), "possession.prom")
			err := WriteTextfile(path)

			Convey("Then the file holds the exposition text", func() {
				So(err, ShouldBeNil)
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "possession_ratings_games_processed_total")
			})
		})

		Convey("When the directory does not exist", func() {
			err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))

			Convey("Then an export error is returned", func() {
				So(errors.Is(err, ErrExportFailed), ShouldBeTrue)
			})
		})
	})
}
