package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/campuskit/quad/internal/adapters/mq/queue"
	"github.com/campuskit/quad/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func event(id string) queue.Event {
	return model.PairEvent{
		EventID: id,
		First:   model.Profile{ID: "a"},
		Second:  model.Profile{ID: "b"},
		TS:      time.Now(),
	}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with default capacity", t, func() {
		q := queue.NewInMemoryQueue()

		Convey("When enqueuing an event", func() {
			ok := q.Enqueue(ctx, event("evt-1"))

			Convey("Then it is accepted and counted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})

			Convey("And it can be dequeued", func() {
				events := q.Dequeue(ctx)
				select {
				case got := <-events:
					So(got.EventID, ShouldEqual, "evt-1")
				case <-time.After(time.Second):
					So("timed out waiting for event", ShouldBeEmpty)
				}
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues are refused", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, event("evt-2")), ShouldBeFalse)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("And the dequeue channel drains then closes", func() {
				events := q.Dequeue(ctx)
				select {
				case _, open := <-events:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					So("timed out waiting for close", ShouldBeEmpty)
				}
			})
		})
	})

	Convey("Given a queue with capacity two", t, func() {
		q := queue.NewInMemoryQueue(
			queue.WithCapacity(2),
			queue.WithBufferSize(2),
		)

		Convey("When a third event arrives", func() {
			So(q.Enqueue(ctx, event("evt-1")), ShouldBeTrue)
			So(q.Enqueue(ctx, event("evt-2")), ShouldBeTrue)
			ok := q.Enqueue(ctx, event("evt-3"))

			Convey("Then it is refused without blocking", func() {
				So(ok, ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})
	})
}
