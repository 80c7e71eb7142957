package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/possession/internal/adapters/report"
	"github.com/okian/possession/internal/config"
	"github.com/okian/possession/internal/synthgame"
)

// setEnv sets POSSESSION_* variables and returns a func restoring them.
func setEnv(vars map[string]string) func() {
	for k, v := range vars {
		_ = os.Setenv(config.EnvPrefix+k, v)
	}
	return func() {
		for k := range vars {
			_ = os.Unsetenv(config.EnvPrefix + k)
		}
	}
}

func writeGames(t *testing.T, games []synthgame.Game) (dir string, env map[string]string) {
	t.Helper()
	dir = t.TempDir()
	paths, err := synthgame.WriteDataset(dir, games)
	if err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return dir, map[string]string{
		"EVENT_CODES_PATH":  paths.EventCodes,
		"LINEUP_PATH":       paths.Lineups,
		"PLAY_BY_PLAY_PATH": paths.PlayByPlay,
		"OUTPUT_PATH":       filepath.Join(dir, "ratings.csv"),
		"WORKER_COUNT":      "2",
		"QUEUE_SIZE":        "1",
	}
}

func readReport(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	return records
}

func TestRun(t *testing.T) {
	convey.Convey("Given a synthetic dataset on disk", t, func() {
		games := synthgame.Batch(3, 11)
		dir, env := writeGames(t, games)

		convey.Convey("When the batch runs with defaults", func() {
			defer setEnv(env)()
			var stderr bytes.Buffer
			code := run(context.Background(), &stderr)

			convey.Convey("Then it exits cleanly and writes one row per roster player", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				records := readReport(t, env["OUTPUT_PATH"])
				convey.So(records[0], convey.ShouldResemble, report.Header)
				convey.So(len(records), convey.ShouldEqual, 1+3*2*(synthgame.ActivePerTeam+1))
				convey.So(stderr.String(), convey.ShouldContainSubstring, "ratings written")
			})
		})

		convey.Convey("When SQLite and metrics outputs are configured", func() {
			env["SQLITE_PATH"] = filepath.Join(dir, "ratings.db")
			env["METRICS_PATH"] = filepath.Join(dir, "ratings.prom")
			env["LOG_FORMAT"] = "json"
			defer setEnv(env)()
			var stderr bytes.Buffer
			code := run(context.Background(), &stderr)

			convey.Convey("Then both files are written", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				_, err := os.Stat(env["SQLITE_PATH"])
				convey.So(err, convey.ShouldBeNil)
				prom, err := os.ReadFile(env["METRICS_PATH"])
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(prom), convey.ShouldContainSubstring, "possession_ratings_batch_duration_seconds")
				convey.So(stderr.String(), convey.ShouldStartWith, "{")
			})
		})

		convey.Convey("When an input table is missing", func() {
			env["PLAY_BY_PLAY_PATH"] = filepath.Join(dir, "missing.txt")
			defer setEnv(env)()
			var stderr bytes.Buffer
			code := run(context.Background(), &stderr)

			convey.Convey("Then the batch fails without a report", func() {
				convey.So(code, convey.ShouldEqual, exitFailed)
				_, err := os.Stat(env["OUTPUT_PATH"])
				convey.So(os.IsNotExist(err), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given games without a pregame roster", t, func() {
		games := synthgame.Batch(2, 5)
		for i := range games {
			games[i].Lineups = nil
		}
		_, env := writeGames(t, games)
		defer setEnv(env)()

		convey.Convey("Then every game fails and the exit code says so", func() {
			var stderr bytes.Buffer
			code := run(context.Background(), &stderr)
			convey.So(code, convey.ShouldEqual, exitFailed)
			convey.So(stderr.String(), convey.ShouldContainSubstring, "game skipped")

			records := readReport(t, env["OUTPUT_PATH"])
			convey.So(records, convey.ShouldHaveLength, 1)
		})
	})

	convey.Convey("Given an invalid configuration", t, func() {
		defer setEnv(map[string]string{"WORKER_COUNT": "0"})()

		convey.Convey("Then run stops before touching any input", func() {
			var stderr bytes.Buffer
			code := run(context.Background(), &stderr)
			convey.So(code, convey.ShouldEqual, exitConfig)
			convey.So(stderr.String(), convey.ShouldContainSubstring, "failed to load config")
		})
	})
}
