package model_test

import (
	"testing"

	"github.com/okian/possession/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEventKind(t *testing.T) {
	Convey("Given event kind codes", t, func() {
		Convey("Then enumerated kinds have names", func() {
			So(model.KindMadeShot.Known(), ShouldBeTrue)
			So(model.KindMadeShot.String(), ShouldEqual, "made_shot")
			So(model.KindStoppage.String(), ShouldEqual, "stoppage")
		})

		Convey("Then other codes are carried as raw numbers", func() {
			k := model.EventKind(17)
			So(k.Known(), ShouldBeFalse)
			So(k.String(), ShouldEqual, "kind(17)")
			So(model.KindUnknown.Known(), ShouldBeFalse)
		})

		Convey("Then shooting fouls are recognized by action", func() {
			So(model.IsShootingFoul(2), ShouldBeTrue)
			So(model.IsShootingFoul(29), ShouldBeTrue)
			So(model.IsShootingFoul(1), ShouldBeFalse)
			So(model.IsShootingFoul(model.FoulActionOffensiveCharge), ShouldBeFalse)
		})
	})
}

func TestEvent(t *testing.T) {
	Convey("Given an event", t, func() {
		ev := model.Event{GameID: "0021900001", Period: 3, EventNum: 42, Type: model.KindFreeThrow, Option1: 1}

		Convey("Then its key is game, period and event number", func() {
			So(ev.Key(), ShouldEqual, "0021900001/3/42")
		})

		Convey("Then Option1 of 1 marks a made free throw", func() {
			So(ev.Made(), ShouldBeTrue)
			ev.Option1 = 0
			So(ev.Made(), ShouldBeFalse)
		})
	})
}

func TestTeams(t *testing.T) {
	Convey("Given the two teams of a game", t, func() {
		teams := model.Teams{"home", "away"}

		Convey("Then membership ignores empty ids", func() {
			So(teams.Has("home"), ShouldBeTrue)
			So(teams.Has("away"), ShouldBeTrue)
			So(teams.Has(""), ShouldBeFalse)
			So(teams.Has("other"), ShouldBeFalse)
		})

		Convey("Then each team has the other as opponent", func() {
			opp, ok := teams.Opponent("home")
			So(ok, ShouldBeTrue)
			So(opp, ShouldEqual, "away")

			opp, ok = teams.Opponent("away")
			So(ok, ShouldBeTrue)
			So(opp, ShouldEqual, "home")

			_, ok = teams.Opponent("other")
			So(ok, ShouldBeFalse)
			_, ok = teams.Opponent("")
			So(ok, ShouldBeFalse)
		})
	})
}
