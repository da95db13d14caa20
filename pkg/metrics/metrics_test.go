package metrics_test

import (
	"testing"

	"github.com/campuskit/quad/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pipeline metrics", func() {
			Convey("Then none of the recorders panic", func() {
				So(func() {
					metrics.RecordPairProcessed()
					metrics.RecordPairDuplicate()
					metrics.RecordScoringLatency(12.5)
					metrics.RecordMatchUpdate()
					metrics.RecordStatusTransition("accepted")
					metrics.RecordConfessionReviewed(true)
					metrics.RecordConfessionReviewed(false)
					metrics.RecordAlertEmitted("class_reminder")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording queue and worker metrics", func() {
			Convey("Then none of the recorders panic", func() {
				So(func() {
					metrics.UpdateQueueSize(10)
					metrics.UpdateQueueCapacity(100)
					metrics.UpdateQueueUtilization(0.1)
					metrics.RecordQueueEnqueue()
					metrics.RecordQueueDequeue()
					metrics.RecordQueueEnqueueError()
					metrics.RecordQueueProcessingLatency(1.0)
					metrics.UpdateWorkerCount(4)
					metrics.RecordWorkerProcessingLatency(2.0)
					metrics.RecordWorkerError()
					metrics.RecordScoringError()
					metrics.RecordStoreError()
					metrics.UpdateTotalPairs(42)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP and system metrics", func() {
			Convey("Then none of the recorders panic", func() {
				So(func() {
					metrics.RecordHTTPRequest("pairs", "POST", "202")
					metrics.RecordHTTPRequestDuration("pairs", "POST", "202", 3.0)
					metrics.RecordErrorByComponent("queue", "queue_full")
					metrics.UpdateSystemMemoryUsage(1 << 20)
					metrics.UpdateSystemGoroutineCount(12)
					metrics.RecordSystemGCPauseTime(0.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering from the registry", func() {
			metrics.RecordPairProcessed()
			families, err := metrics.GetRegistry().Gather()

			Convey("Then the service metrics are registered", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["quad_campus_pairs_processed_total"], ShouldBeTrue)
			})
		})
	})
}
