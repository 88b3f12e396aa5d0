package queue_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/queue"
)

var _ = Describe("ParseMessage", func() {
	It("parses a full entry", func() {
		msg, err := queue.ParseMessage(redis.XMessage{
			ID: "1700000000000-0",
			Values: map[string]any{
				"job_id":     "1234",
				"kind":       "booking_cancelled",
				"to":         "ada@example.com",
				"reply_to":   "support@hkt.example",
				"data":       `{"name":"Ada","refund":"205"}`,
				"trace_id":   "4bf92f3577b34da6a3ce929d0e0e4736",
				"attempt":    "2",
				"created_at": "2026-10-17T08:00:00Z",
			},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.ID).To(Equal("1700000000000-0"))
		Expect(msg.Attempt).To(Equal(2))
		Expect(msg.TraceID).To(Equal("4bf92f3577b34da6a3ce929d0e0e4736"))
		Expect(msg.Job.ID).To(Equal(int64(1234)))
		Expect(msg.Job.Kind).To(Equal(domain.EmailBookingCancelled))
		Expect(msg.Job.ReplyTo).To(Equal("support@hkt.example"))
		Expect(msg.Job.Data).To(HaveKeyWithValue("refund", "205"))
		Expect(msg.Job.CreatedAt).To(Equal(time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)))
		Expect(msg.Job.TraceID).NotTo(BeNil())
	})

	It("defaults the attempt to 1", func() {
		msg, err := queue.ParseMessage(redis.XMessage{ID: "1-0", Values: map[string]any{
			"kind": "welcome",
			"to":   "ada@example.com",
		}})
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Attempt).To(Equal(1))
		Expect(msg.Job.Data).To(BeEmpty())
		Expect(msg.Job.TraceID).To(BeNil())
	})

	DescribeTable("rejects malformed entries",
		func(values map[string]any) {
			_, err := queue.ParseMessage(redis.XMessage{ID: "1-0", Values: values})
			Expect(err).To(HaveOccurred())
		},
		Entry("missing kind", map[string]any{"to": "a@b.c"}),
		Entry("unknown kind", map[string]any{"kind": "newsletter", "to": "a@b.c"}),
		Entry("missing recipient", map[string]any{"kind": "welcome"}),
		Entry("empty recipient", map[string]any{"kind": "welcome", "to": ""}),
		Entry("bad attempt", map[string]any{"kind": "welcome", "to": "a@b.c", "attempt": "x"}),
		Entry("bad data", map[string]any{"kind": "welcome", "to": "a@b.c", "data": "{"}),
		Entry("bad job id", map[string]any{"kind": "welcome", "to": "a@b.c", "job_id": "abc"}),
	)
})
