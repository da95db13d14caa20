package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/campuskit/quad/internal/adapters/mq/queue"
	"github.com/campuskit/quad/internal/adapters/mq/worker"
	"github.com/campuskit/quad/internal/domain/match"
	"github.com/campuskit/quad/internal/domain/model"
	"github.com/campuskit/quad/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// recordingUpdater captures UpdatePair calls for assertions.
type recordingUpdater struct {
	mu      sync.Mutex
	updates map[string]int
}

func newRecordingUpdater() *recordingUpdater {
	return &recordingUpdater{updates: make(map[string]int)}
}

func (u *recordingUpdater) UpdatePair(ctx context.Context, pairID string, score int, league string, reasons []string, eventID string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.updates[pairID] = score
	return true, nil
}

func (u *recordingUpdater) score(pairID string) (int, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s, ok := u.updates[pairID]
	return s, ok
}

func pairEvent(id, first, second string) model.PairEvent {
	return model.PairEvent{
		EventID: id,
		First:   model.Profile{ID: first, CGPA: 3.2, Branch: "cse", Year: 2},
		Second:  model.Profile{ID: second, CGPA: 3.4, Branch: "cse", Year: 2},
		TS:      time.Now(),
	}
}

func waitForScore(u *recordingUpdater, pairID string) (int, bool) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s, ok := u.score(pairID); ok {
			return s, true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return 0, false
}

func TestWorker(t *testing.T) {
	ctx := context.Background()

	Convey("Given a worker over a live queue", t, func() {
		// Initialize logging for tests
		_ = logger.Init()
		q := queue.NewInMemoryQueue()
		updater := newRecordingUpdater()
		w := worker.NewWorker(q, match.NewRuleEngine(), updater, worker.WithName("worker-test"))

		go w.Run(ctx)

		Convey("When an event is enqueued", func() {
			So(q.Enqueue(ctx, pairEvent("evt-1", "stu-a", "stu-b")), ShouldBeTrue)

			Convey("Then the scored result reaches the updater", func() {
				score, ok := waitForScore(updater, "stu-a:stu-b")
				So(ok, ShouldBeTrue)
				// CGPA within 0.5, same branch, same year: 30+20+15.
				So(score, ShouldEqual, 65)
			})
		})

		Convey("When the worker is shut down", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()

			Convey("Then it stops promptly", func() {
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	ctx := context.Background()

	Convey("Given a pool of four workers", t, func() {
		// Initialize logging for tests
		_ = logger.Init()
		q := queue.NewInMemoryQueue()
		updater := newRecordingUpdater()
		pool := worker.NewPool(4, q, match.NewRuleEngine(), updater)

		So(pool.Size(), ShouldEqual, 4)
		pool.Start(ctx)

		Convey("When several events are enqueued", func() {
			So(q.Enqueue(ctx, pairEvent("evt-1", "s1", "s2")), ShouldBeTrue)
			So(q.Enqueue(ctx, pairEvent("evt-2", "s3", "s4")), ShouldBeTrue)
			So(q.Enqueue(ctx, pairEvent("evt-3", "s5", "s6")), ShouldBeTrue)

			Convey("Then every pair is processed", func() {
				for _, pairID := range []string{"s1:s2", "s3:s4", "s5:s6"} {
					_, ok := waitForScore(updater, pairID)
					So(ok, ShouldBeTrue)
				}
				pool.Stop()
			})
		})

		Convey("When the pool is shut down", func() {
			Convey("Then the queue closes and workers drain", func() {
				So(pool.Shutdown(ctx), ShouldBeNil)
				So(q.IsClosed(), ShouldBeTrue)
			})
		})
	})
}
