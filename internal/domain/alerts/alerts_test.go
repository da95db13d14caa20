package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/campuskit/quad/internal/domain/alerts"
	. "github.com/smartystreets/goconvey/convey"
)

// stubClock pins evaluations to a fixed instant.
type stubClock struct{ t time.Time }

func (c stubClock) Now() time.Time { return c.t }

// monday returns a known Monday at the given wall clock time.
func monday(hour, minute int) time.Time {
	return time.Date(2026, time.March, 2, hour, minute, 0, 0, time.UTC)
}

func TestClassReminders(t *testing.T) {
	Convey("Given a timetable with a Monday 10:00 class", t, func() {
		timetable := []alerts.TimetableEntry{
			{Day: "Monday", Start: "10:00", End: "11:00", Subject: "Signals", Room: "LT-2"},
		}
		ctx := context.Background()

		Convey("When evaluated 10 minutes before start", func() {
			ev := alerts.NewEvaluator(alerts.WithClock(stubClock{t: monday(9, 50)}))
			list := ev.ClassReminders(ctx, timetable)

			Convey("Then a medium reminder is produced", func() {
				So(list, ShouldHaveLength, 1)
				So(list[0].Type, ShouldEqual, alerts.TypeClassReminder)
				So(list[0].Priority, ShouldEqual, alerts.PriorityMedium)
				So(list[0].Title, ShouldEqual, "Signals starting soon")
				So(list[0].Message, ShouldEqual, "Signals starts in 10 min in LT-2")
			})
		})

		Convey("When evaluated 4 minutes before start", func() {
			ev := alerts.NewEvaluator(alerts.WithClock(stubClock{t: monday(9, 56)}))
			list := ev.ClassReminders(ctx, timetable)

			Convey("Then the reminder is high priority", func() {
				So(list, ShouldHaveLength, 1)
				So(list[0].Priority, ShouldEqual, alerts.PriorityHigh)
			})
		})

		Convey("When evaluated exactly at start", func() {
			ev := alerts.NewEvaluator(alerts.WithClock(stubClock{t: monday(10, 0)}))
			list := ev.ClassReminders(ctx, timetable)

			Convey("Then no reminder is produced", func() {
				So(list, ShouldBeEmpty)
			})
		})

		Convey("When evaluated 16 minutes before start", func() {
			ev := alerts.NewEvaluator(alerts.WithClock(stubClock{t: monday(9, 44)}))
			list := ev.ClassReminders(ctx, timetable)

			Convey("Then the class is outside the window", func() {
				So(list, ShouldBeEmpty)
			})
		})

		Convey("When evaluated on a different day", func() {
			tuesday := monday(9, 50).AddDate(0, 0, 1)
			ev := alerts.NewEvaluator(alerts.WithClock(stubClock{t: tuesday}))
			list := ev.ClassReminders(ctx, timetable)

			Convey("Then no reminder is produced", func() {
				So(list, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a timetable with malformed entries", t, func() {
		timetable := []alerts.TimetableEntry{
			{Day: "Monday", Start: "25:99", Subject: "Broken"},
			{Day: "Monday", Start: "", Subject: "Empty"},
			{Day: "Monday", Start: "10:05", Subject: "Fine"},
		}
		ev := alerts.NewEvaluator(alerts.WithClock(stubClock{t: monday(10, 0)}))

		Convey("When evaluated", func() {
			list := ev.ClassReminders(context.Background(), timetable)

			Convey("Then malformed entries are skipped, not fatal", func() {
				So(list, ShouldHaveLength, 1)
				So(list[0].Title, ShouldEqual, "Fine starting soon")
			})
		})
	})

	Convey("Given an entry without a subject or room", t, func() {
		timetable := []alerts.TimetableEntry{{Day: "Monday", Start: "10:05"}}
		ev := alerts.NewEvaluator(alerts.WithClock(stubClock{t: monday(10, 0)}))

		Convey("When evaluated", func() {
			list := ev.ClassReminders(context.Background(), timetable)

			Convey("Then a generic subject is used and the room is omitted", func() {
				So(list, ShouldHaveLength, 1)
				So(list[0].Title, ShouldEqual, "Class starting soon")
				So(list[0].Message, ShouldEqual, "Class starts in 5 min")
			})
		})
	})
}

func TestAttendanceAlert(t *testing.T) {
	ctx := context.Background()

	Convey("Given an evaluator with a fixed clock", t, func() {
		now := monday(12, 0)
		state := alerts.NewInMemoryStateStore()
		ev := alerts.NewEvaluator(
			alerts.WithClock(stubClock{t: now}),
			alerts.WithStateStore(state),
		)

		Convey("When attendance was checked yesterday", func() {
			last := now.AddDate(0, 0, -1)
			a := ev.AttendanceAlert(ctx, "stu-1", &last)

			Convey("Then no warning is produced", func() {
				So(a, ShouldBeNil)
			})
		})

		Convey("When attendance was checked eight days ago", func() {
			last := now.AddDate(0, 0, -8)
			a := ev.AttendanceAlert(ctx, "stu-1", &last)

			Convey("Then a medium warning is produced", func() {
				So(a, ShouldNotBeNil)
				So(a.Type, ShouldEqual, alerts.TypeAttendanceWarning)
				So(a.Priority, ShouldEqual, alerts.PriorityMedium)
				So(a.Message, ShouldEqual, "No attendance check in 8 days")
			})
		})

		Convey("When attendance was never checked", func() {
			a := ev.AttendanceAlert(ctx, "stu-1", nil)

			Convey("Then the warning reads as maximally stale", func() {
				So(a, ShouldNotBeNil)
				So(a.Message, ShouldEqual, "Attendance has never been checked")
			})
		})

		Convey("When a warning was just shown", func() {
			first := ev.AttendanceAlert(ctx, "stu-1", nil)
			So(first, ShouldNotBeNil)

			Convey("And the student is evaluated again within the window", func() {
				again := ev.AttendanceAlert(ctx, "stu-1", nil)

				Convey("Then the repeat is suppressed", func() {
					So(again, ShouldBeNil)
				})

				Convey("But other students are unaffected", func() {
					other := ev.AttendanceAlert(ctx, "stu-2", nil)
					So(other, ShouldNotBeNil)
				})
			})

			Convey("And the suppression window passes", func() {
				later := alerts.NewEvaluator(
					alerts.WithClock(stubClock{t: now.Add(25 * time.Hour)}),
					alerts.WithStateStore(state),
				)
				again := later.AttendanceAlert(ctx, "stu-1", nil)

				Convey("Then the warning fires again", func() {
					So(again, ShouldNotBeNil)
				})
			})
		})
	})
}

func TestEvaluate(t *testing.T) {
	Convey("Given a student with an imminent class and stale attendance", t, func() {
		now := monday(9, 56)
		timetable := []alerts.TimetableEntry{
			{Day: "Monday", Start: "10:00", Subject: "Signals", Room: "LT-2"},
			{Day: "Monday", Start: "10:09", Subject: "Networks", Room: "LT-4"},
		}
		ev := alerts.NewEvaluator(alerts.WithClock(stubClock{t: now}))

		Convey("When evaluated", func() {
			list := ev.Evaluate(context.Background(), "stu-1", timetable, nil)

			Convey("Then alerts are sorted by priority descending", func() {
				So(list, ShouldHaveLength, 3)
				So(list[0].Priority, ShouldEqual, alerts.PriorityHigh)
				So(list[0].Title, ShouldEqual, "Signals starting soon")
				So(list[1].Priority, ShouldEqual, alerts.PriorityMedium)
				So(list[2].Priority, ShouldEqual, alerts.PriorityMedium)
			})

			Convey("And ties keep their generation order", func() {
				So(list[1].Type, ShouldEqual, alerts.TypeClassReminder)
				So(list[2].Type, ShouldEqual, alerts.TypeAttendanceWarning)
			})
		})
	})
}
