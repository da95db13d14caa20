package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/campuskit/quad/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		Convey("When getting the global instance", func() {
			l := logger.Get()

			Convey("Then it is usable at every level", func() {
				So(l, ShouldNotBeNil)
				So(func() {
					l.Debug(ctx, "debug message", logger.String("k", "v"))
					l.Info(ctx, "info message", logger.Int("count", 3))
					l.Warn(ctx, "warn message", logger.Bool("flag", true))
					l.Error(ctx, "error message", logger.Error(errors.New("boom")))
				}, ShouldNotPanic)
			})
		})

		Convey("When deriving a named logger", func() {
			l := logger.Named("pipeline")

			Convey("Then logging through it works", func() {
				So(l, ShouldNotBeNil)
				So(func() { l.Info(ctx, "named message") }, ShouldNotPanic)
			})
		})

		Convey("When setting the level from a string", func() {
			Convey("Then known levels are accepted", func() {
				So(logger.SetLevelString("debug"), ShouldBeNil)
				So(logger.SetLevelString("info"), ShouldBeNil)
				So(logger.SetLevelString("warn"), ShouldBeNil)
				So(logger.SetLevelString("error"), ShouldBeNil)
			})

			Convey("And unknown levels are rejected", func() {
				So(logger.SetLevelString("verbose"), ShouldNotBeNil)
			})
		})

		Convey("When syncing", func() {
			Convey("Then it never fails for the stdout handler", func() {
				So(logger.Sync(), ShouldBeNil)
			})
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Given the field constructors", t, func() {
		Convey("When building fields", func() {
			Convey("Then keys and values are preserved", func() {
				So(logger.String("s", "v").Key, ShouldEqual, "s")
				So(logger.Int("i", 7).Value, ShouldEqual, 7)
				So(logger.Float64("f", 1.5).Value, ShouldEqual, 1.5)
				So(logger.Bool("b", true).Value, ShouldEqual, true)
				So(logger.Any("a", []int{1}).Key, ShouldEqual, "a")
				So(logger.Error(errors.New("x")).Key, ShouldEqual, "error")
			})
		})
	})
}
