package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/possession/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, config.FormatText)
			convey.So(cfg.EventCodesPath, convey.ShouldEqual, "data/Event_Codes.txt")
			convey.So(cfg.LineupPath, convey.ShouldEqual, "data/Game_Lineup.txt")
			convey.So(cfg.PlayByPlayPath, convey.ShouldEqual, "data/Play_by_Play.txt")
			convey.So(cfg.OutputPath, convey.ShouldEqual, "ratings.csv")
			convey.So(cfg.SQLitePath, convey.ShouldBeEmpty)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.QueueSize, convey.ShouldEqual, 4096)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 0)
		})

		convey.Convey("Then it should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with a bad setting", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"event codes path", func(c *config.Config) { c.EventCodesPath = "" }},
			{"lineup path", func(c *config.Config) { c.LineupPath = "" }},
			{"play by play path", func(c *config.Config) { c.PlayByPlayPath = "" }},
			{"output path", func(c *config.Config) { c.OutputPath = "" }},
			{"log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"worker count", func(c *config.Config) { c.WorkerCount = 0 }},
			{"queue size", func(c *config.Config) { c.QueueSize = -1 }},
			{"dedupe size", func(c *config.Config) { c.DedupeSize = -5 }},
		}
		for _, tc := range cases {
			cfg := config.New()
			tc.mutate(cfg)

			convey.Convey("Then validation rejects the "+tc.name, func() {
				convey.So(cfg.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
			})
		}
	})
}
