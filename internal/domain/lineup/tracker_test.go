package lineup_test

import (
	"testing"

	"github.com/okian/possession/internal/domain/catalog"
	"github.com/okian/possession/internal/domain/lineup"
	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/internal/synthgame"
	. "github.com/smartystreets/goconvey/convey"
)

var teams = model.Teams{"TA", "TB"}

var starters = []string{"a1", "a2", "a3", "a4", "a5", "b1", "b2", "b3", "b4", "b5"}

func testRoster() model.Roster {
	r := make(model.Roster)
	for _, id := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"} {
		r[id] = "TA"
	}
	for _, id := range []string{"b1", "b2", "b3", "b4", "b5", "b6"} {
		r[id] = "TB"
	}
	return r
}

func sub(leaving, entering string) *model.Event {
	return &model.Event{Type: model.KindSubstitution, Person1: leaving, Person2: entering}
}

func foul(action int) *model.Event {
	return &model.Event{Type: model.KindFoul, Action: action, TeamID: "TB", Person1: "b1"}
}

func freeThrow(action int) *model.Event {
	return &model.Event{Type: model.KindFreeThrow, Action: action, TeamID: "TA", Person1: "a1", Option1: 1}
}

func TestNewTracker(t *testing.T) {
	roster := testRoster()

	Convey("Given period starters", t, func() {
		Convey("When each team lists five players", func() {
			tr, err := lineup.NewTracker(starters, teams, roster)

			Convey("Then all ten are on court", func() {
				So(err, ShouldBeNil)
				So(tr.Active(), ShouldResemble, starters)
				So(tr.OnCourt("a1"), ShouldBeTrue)
				So(tr.OnCourt("a6"), ShouldBeFalse)
				So(tr.Holding(), ShouldBeFalse)
			})
		})

		Convey("When a starter is listed twice", func() {
			tr, err := lineup.NewTracker(append([]string{"a1"}, starters...), teams, roster)

			Convey("Then the repeat is ignored", func() {
				So(err, ShouldBeNil)
				So(tr.Active(), ShouldHaveLength, 10)
			})
		})

		Convey("When a team is short", func() {
			_, err := lineup.NewTracker(starters[:9], teams, roster)

			Convey("Then the lineup is rejected", func() {
				So(err, ShouldWrap, lineup.ErrLineupSize)
			})
		})

		Convey("When a starter is not on the roster", func() {
			_, err := lineup.NewTracker(append(starters[:9:9], "ghost"), teams, roster)

			Convey("Then the lineup is rejected", func() {
				So(err, ShouldWrap, lineup.ErrUnknownPlayer)
			})
		})
	})
}

func TestTrackerObserve(t *testing.T) {
	roster := testRoster()
	cat, err := catalog.New(synthgame.EventCodes())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	Convey("Given a tracker at the start of a period", t, func() {
		tr, err := lineup.NewTracker(starters, teams, roster)
		So(err, ShouldBeNil)

		Convey("When a substitution arrives outside free throws", func() {
			So(tr.Observe(sub("a2", "a6"), cat), ShouldBeNil)

			Convey("Then it applies at once in the leaving player's slot", func() {
				So(tr.Active()[1], ShouldEqual, "a6")
				So(tr.OnCourt("a2"), ShouldBeFalse)
				So(tr.Deferred(), ShouldEqual, 0)
			})
		})

		Convey("When a shooting foul is followed by substitutions and two free throws", func() {
			So(tr.Observe(foul(synthgame.ActionShootingFoul), cat), ShouldBeNil)
			So(tr.Holding(), ShouldBeTrue)
			So(tr.Observe(sub("a2", "a6"), cat), ShouldBeNil)
			So(tr.Observe(sub("b3", "b6"), cat), ShouldBeNil)

			Convey("Then they wait for the last shot", func() {
				So(tr.OnCourt("a2"), ShouldBeTrue)
				So(tr.Pending(), ShouldResemble, []lineup.Substitution{
					{Leaving: "a2", Entering: "a6"},
					{Leaving: "b3", Entering: "b6"},
				})
				So(tr.EndPossession(), ShouldWrap, lineup.ErrPendingSubstitutions)

				So(tr.Observe(freeThrow(11), cat), ShouldBeNil)
				So(tr.OnCourt("a2"), ShouldBeTrue)

				So(tr.Observe(freeThrow(12), cat), ShouldBeNil)
				So(tr.Holding(), ShouldBeFalse)
				So(tr.Pending(), ShouldBeEmpty)
				So(tr.OnCourt("a6"), ShouldBeTrue)
				So(tr.OnCourt("b6"), ShouldBeTrue)
				So(tr.Deferred(), ShouldEqual, 2)
				So(tr.EndPossession(), ShouldBeNil)
			})
		})

		Convey("When a non-shooting foul precedes a substitution", func() {
			So(tr.Observe(foul(synthgame.ActionPersonalFoul), cat), ShouldBeNil)
			So(tr.Observe(sub("b1", "b6"), cat), ShouldBeNil)

			Convey("Then nothing is held", func() {
				So(tr.Holding(), ShouldBeFalse)
				So(tr.OnCourt("b6"), ShouldBeTrue)
			})
		})

		Convey("When queued substitutions chain through the same slot", func() {
			So(tr.Observe(foul(29), cat), ShouldBeNil)
			So(tr.Observe(sub("a2", "a6"), cat), ShouldBeNil)
			So(tr.Observe(sub("a6", "a7"), cat), ShouldBeNil)
			So(tr.Observe(freeThrow(10), cat), ShouldBeNil)

			Convey("Then they apply in submission order", func() {
				So(tr.Active()[1], ShouldEqual, "a7")
			})
		})

		Convey("When a substitution is invalid", func() {
			Convey("Then a bench player cannot leave", func() {
				So(tr.Observe(sub("a6", "a7"), cat), ShouldWrap, lineup.ErrNotOnCourt)
			})

			Convey("Then an unknown player cannot enter", func() {
				So(tr.Observe(sub("a2", "ghost"), cat), ShouldWrap, lineup.ErrUnknownPlayer)
			})

			Convey("Then a player cannot be swapped for the other team", func() {
				So(tr.Observe(sub("a2", "b6"), cat), ShouldWrap, lineup.ErrLineupSize)
			})

			Convey("Then a player already on court cannot enter", func() {
				So(tr.Observe(sub("a2", "a3"), cat), ShouldWrap, lineup.ErrLineupSize)
			})
		})

		Convey("When a free throw code is missing from the catalog", func() {
			err := tr.Observe(freeThrow(77), cat)

			Convey("Then the error is reported", func() {
				So(err, ShouldWrap, catalog.ErrUnknownCode)
			})
		})
	})
}
