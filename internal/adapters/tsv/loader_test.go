package tsv_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/possession/internal/adapters/tsv"
	"github.com/okian/possession/internal/domain/dedupe"
	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const codes = "Event_Msg_Type\tAction_Type\tEvent_Msg_Type_Description\tAction_Type_Description\n" +
	"3\t11\tFree Throw  \tFree Throw 1 of 2  \n" +
	"10\t0\tJump Ball\tJump Ball\n"

const lineups = "Game_id\tPeriod\tPerson_id\tTeam_id\tstatus\n" +
	"g1\t0\tp1\tt1\tA\n" +
	"g1\t1\tp1\tt1\t\n"

const plays = "Game_id\tEvent_Num\tEvent_Msg_Type\tPeriod\tWC_Time\tPC_Time\tAction_Type\tOption1\tOption2\tTeam_id\tPerson1\tPerson2\n" +
	"g1\t2\t10\t1\t1000\t7200\t0\t0\t0\tt1\tp1\tp2\n" +
	"g1\t3\t1\t1\t1010\t7100\t1\t2.0\t0\tt1\tp1\t\n" +
	"g1\t3\t1\t1\t1010\t7100\t1\t2.0\t0\tt1\tp1\t\n"

func TestReaders(t *testing.T) {
	Convey("Given the event code table", t, func() {
		out, err := tsv.ReadEventCodes(strings.NewReader(codes))

		Convey("Then rows are parsed and text trimmed", func() {
			So(err, ShouldBeNil)
			So(out, ShouldHaveLength, 2)
			So(out[0].Type, ShouldEqual, model.KindFreeThrow)
			So(out[0].Action, ShouldEqual, 11)
			So(out[0].EventDescription, ShouldEqual, "Free Throw")
			So(out[0].ActionDescription, ShouldEqual, "Free Throw 1 of 2")
		})
	})

	Convey("Given the lineup table", t, func() {
		out, err := tsv.ReadLineups(strings.NewReader(lineups))

		Convey("Then period and status are read", func() {
			So(err, ShouldBeNil)
			So(out, ShouldResemble, []model.LineupEntry{
				{GameID: "g1", Period: 0, PersonID: "p1", TeamID: "t1", Status: "A"},
				{GameID: "g1", Period: 1, PersonID: "p1", TeamID: "t1"},
			})
		})
	})

	Convey("Given the play-by-play table", t, func() {
		out, err := tsv.ReadPlayByPlay(strings.NewReader(plays))

		Convey("Then whole floats are accepted and extra columns ignored", func() {
			So(err, ShouldBeNil)
			So(out, ShouldHaveLength, 3)
			So(out[0].Type, ShouldEqual, model.KindJumpBall)
			So(out[0].Person2, ShouldEqual, "p2")
			So(out[1].Option1, ShouldEqual, 2)
			So(out[1].WCTime, ShouldEqual, 1010)
			So(out[1].PCTime, ShouldEqual, 7100)
		})
	})

	Convey("Given malformed input", t, func() {
		Convey("When a required column is missing", func() {
			_, err := tsv.ReadLineups(strings.NewReader("Game_id\tPeriod\n"))
			So(err, ShouldWrap, tsv.ErrMissingColumn)
		})

		Convey("When a number does not parse", func() {
			_, err := tsv.ReadLineups(strings.NewReader(
				"Game_id\tPeriod\tPerson_id\tTeam_id\n g1\tone\tp\tt\n"))
			So(err, ShouldWrap, tsv.ErrBadField)
		})

		Convey("When a number is fractional", func() {
			_, err := tsv.ReadLineups(strings.NewReader(
				"Game_id\tPeriod\tPerson_id\tTeam_id\ng1\t1.5\tp\tt\n"))
			So(err, ShouldWrap, tsv.ErrBadField)
		})

		Convey("When the file is empty", func() {
			_, err := tsv.ReadEventCodes(strings.NewReader(""))
			So(err, ShouldWrap, tsv.ErrEmptyTable)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given the three files on disk", t, func() {
		dir := t.TempDir()
		paths := tsv.Paths{
			EventCodes: filepath.Join(dir, "codes.txt"),
			Lineups:    filepath.Join(dir, "lineups.txt"),
			PlayByPlay: filepath.Join(dir, "pbp.txt"),
		}
		So(os.WriteFile(paths.EventCodes, []byte(codes), 0o600), ShouldBeNil)
		So(os.WriteFile(paths.Lineups, []byte(lineups), 0o600), ShouldBeNil)
		So(os.WriteFile(paths.PlayByPlay, []byte(plays), 0o600), ShouldBeNil)

		Convey("When loading", func() {
			ds, err := tsv.Load(context.Background(), paths, dedupe.NewInMemoryDeduper())

			Convey("Then the repeated row is dropped", func() {
				So(err, ShouldBeNil)
				So(ds.Codes, ShouldHaveLength, 2)
				So(ds.Lineups, ShouldHaveLength, 2)
				So(ds.Events, ShouldHaveLength, 2)
				So(ds.Duplicates, ShouldEqual, 1)
			})
		})

		Convey("When a file is missing", func() {
			paths.Lineups = filepath.Join(dir, "absent.txt")
			_, err := tsv.Load(context.Background(), paths, dedupe.NewInMemoryDeduper())
			So(err, ShouldNotBeNil)
		})
	})
}

func TestWriteRoundTrip(t *testing.T) {
	Convey("Given tables written by the writers", t, func() {
		codes := []model.EventCode{{Type: model.KindFreeThrow, Action: 12, EventDescription: "Free Throw", ActionDescription: "Free Throw 2 of 2"}}
		lineups := []model.LineupEntry{{GameID: "g1", Period: 1, PersonID: "p1", TeamID: "t1", Status: "A"}}
		events := []model.Event{{
			GameID: "g1", EventNum: 9, Type: model.KindSubstitution, Period: 2,
			WCTime: 123456789012, PCTime: 4410, TeamID: "t1", Person1: "p1", Person2: "p2",
		}}

		var codeBuf, lineupBuf, eventBuf strings.Builder
		So(tsv.WriteEventCodes(&codeBuf, codes), ShouldBeNil)
		So(tsv.WriteLineups(&lineupBuf, lineups), ShouldBeNil)
		So(tsv.WritePlayByPlay(&eventBuf, events), ShouldBeNil)

		Convey("Then the readers get the same rows back", func() {
			gotCodes, err := tsv.ReadEventCodes(strings.NewReader(codeBuf.String()))
			So(err, ShouldBeNil)
			So(gotCodes, ShouldResemble, codes)

			gotLineups, err := tsv.ReadLineups(strings.NewReader(lineupBuf.String()))
			So(err, ShouldBeNil)
			So(gotLineups, ShouldResemble, lineups)

			gotEvents, err := tsv.ReadPlayByPlay(strings.NewReader(eventBuf.String()))
			So(err, ShouldBeNil)
			So(gotEvents, ShouldResemble, events)
		})
	})
}
