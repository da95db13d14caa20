package service_test

import (
	"context"
	"testing"
	"time"

	service "github.com/campuskit/quad/internal/app"
	"github.com/campuskit/quad/internal/domain/alerts"
	"github.com/campuskit/quad/internal/domain/model"
	"github.com/campuskit/quad/internal/domain/types"
	"github.com/campuskit/quad/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func pairEvent(id string) model.PairEvent {
	return model.PairEvent{
		EventID: id,
		First:   model.Profile{ID: "stu-a", CGPA: 3.6, Branch: "cse", Year: 2, StudyStyle: model.StyleNightOwl},
		Second:  model.Profile{ID: "stu-b", CGPA: 3.5, Branch: "cse", Year: 2, StudyStyle: model.StyleNightOwl},
		TS:      time.Now(),
	}
}

func waitForMatch(ctx context.Context, svc *service.Service, pairID string) (types.MatchEntry, bool) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if entry, err := svc.Match(ctx, pairID); err == nil {
			return entry, true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return types.MatchEntry{}, false
}

func TestService_Pipeline(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		// Initialize logging for tests
		_ = logger.Init()

		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(100),
			service.WithDedupeSize(100),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a pair event flows through the pipeline", func() {
			So(svc.SeenAndRecord(ctx, "evt-1"), ShouldBeFalse)
			So(svc.SubmitPair(ctx, pairEvent("evt-1")), ShouldBeTrue)

			entry, ok := waitForMatch(ctx, svc, "stu-a:stu-b")

			Convey("Then the scored match lands in the feed", func() {
				So(ok, ShouldBeTrue)
				So(entry.Score, ShouldBeGreaterThan, 0)
				So(entry.Score, ShouldBeLessThanOrEqualTo, 100)
				So(entry.League, ShouldEqual, "diamond")
				So(entry.Status, ShouldEqual, string(model.StatusPending))

				feed, err := svc.TopMatches(ctx, 10)
				So(err, ShouldBeNil)
				So(feed, ShouldHaveLength, 1)
				So(feed[0].PairID, ShouldEqual, "stu-a:stu-b")
			})

			Convey("And a repeated event id reads as a duplicate", func() {
				So(svc.SeenAndRecord(ctx, "evt-1"), ShouldBeTrue)
			})
		})

		Convey("When a status transition is applied", func() {
			So(svc.SeenAndRecord(ctx, "evt-2"), ShouldBeFalse)
			So(svc.SubmitPair(ctx, pairEvent("evt-2")), ShouldBeTrue)
			_, ok := waitForMatch(ctx, svc, "stu-a:stu-b")
			So(ok, ShouldBeTrue)

			Convey("Then accepting a pending match succeeds once", func() {
				So(svc.SetMatchStatus(ctx, "stu-a:stu-b", "accepted"), ShouldBeNil)
				So(svc.SetMatchStatus(ctx, "stu-a:stu-b", "rejected"), ShouldEqual, service.ErrBadTransition)
			})

			Convey("And unknown statuses are rejected up front", func() {
				So(svc.SetMatchStatus(ctx, "stu-a:stu-b", "maybe"), ShouldEqual, service.ErrBadStatus)
			})

			Convey("And unknown pairs report not found", func() {
				So(svc.SetMatchStatus(ctx, "x:y", "accepted"), ShouldEqual, service.ErrNotFound)
			})
		})

		Convey("When an unrecorded event id is retried", func() {
			So(svc.SeenAndRecord(ctx, "evt-3"), ShouldBeFalse)
			svc.Unrecord(ctx, "evt-3")

			Convey("Then it reads as unseen again", func() {
				So(svc.SeenAndRecord(ctx, "evt-3"), ShouldBeFalse)
			})
		})

		Convey("When stats are read", func() {
			stats := svc.GetStats()

			Convey("Then they describe the running service", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats["workerCount"], ShouldEqual, 2)
				So(stats, ShouldContainKey, "queueLength")
				So(stats, ShouldContainKey, "totalPairs")
			})
		})
	})
}

func TestService_Confessions(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with custom moderation limits", t, func() {
		// Initialize logging for tests
		_ = logger.Init()

		svc := service.New(
			service.WithModerationLimits(10, 280, 3, 0.7),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When reviewing a clean confession", func() {
			clean, verdict := svc.ReviewConfession(ctx, "the   midnight  canteen run is the best part of exams")

			Convey("Then it passes and comes back sanitized", func() {
				So(verdict.IsValid, ShouldBeTrue)
				So(clean, ShouldEqual, "the midnight canteen run is the best part of exams")
			})
		})

		Convey("When reviewing a confession with a phone number", func() {
			_, verdict := svc.ReviewConfession(ctx, "text me at 9876543210 after the lab session")

			Convey("Then it is valid but warned", func() {
				So(verdict.IsValid, ShouldBeTrue)
				So(verdict.Warnings, ShouldNotBeEmpty)
			})
		})

		Convey("When the custom spam limit is exceeded", func() {
			_, verdict := svc.ReviewConfession(ctx, "same same same same thing every single day here")

			Convey("Then the spam warning applies", func() {
				So(verdict.Warnings, ShouldContain, "excessive repetition of a single word")
			})
		})
	})
}

func TestService_Alerts(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		// Initialize logging for tests
		_ = logger.Init()

		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		// A Monday morning, pinned so timetable evaluation is deterministic.
		now := time.Date(2026, time.March, 2, 9, 56, 0, 0, time.UTC)
		timetable := []alerts.TimetableEntry{
			{Day: "Monday", Start: "10:00", Subject: "Signals", Room: "LT-2"},
		}

		Convey("When evaluating a student with stale attendance", func() {
			list := svc.EvaluateAlerts(ctx, "stu-1", timetable, nil, now)

			Convey("Then reminders and the attendance warning come back sorted", func() {
				So(list, ShouldHaveLength, 2)
				So(list[0].Type, ShouldEqual, alerts.TypeClassReminder)
				So(list[0].Priority, ShouldEqual, alerts.PriorityHigh)
				So(list[1].Type, ShouldEqual, alerts.TypeAttendanceWarning)
			})

			Convey("And the warning is suppressed on the next poll", func() {
				again := svc.EvaluateAlerts(ctx, "stu-1", timetable, nil, now.Add(time.Minute))
				So(again, ShouldHaveLength, 1)
				So(again[0].Type, ShouldEqual, alerts.TypeClassReminder)
			})
		})

		Convey("When attendance was checked recently", func() {
			last := now.AddDate(0, 0, -2)
			list := svc.EvaluateAlerts(ctx, "stu-2", nil, &last, now)

			Convey("Then no alerts are produced", func() {
				So(list, ShouldBeEmpty)
			})
		})
	})
}
