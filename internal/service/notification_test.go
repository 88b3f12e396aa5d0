package service_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/service"
)

var _ = Describe("ContactService", func() {
	var (
		producer *mockProducer
		svc      service.ContactService
	)

	BeforeEach(func() {
		producer = &mockProducer{}
		svc = service.NewContactService(service.NewNotifier(producer), "support@hkt.example")
	})

	It("queues a contact message to support with the sender as reply-to", func() {
		Expect(svc.Submit(context.Background(), "Sam", " Sam@Example.com ", "Do you allow pets?")).To(Succeed())

		Expect(producer.jobs).To(HaveLen(1))
		job := producer.jobs[0]
		Expect(job.Kind).To(Equal(domain.EmailContactMessage))
		Expect(job.To).To(Equal("support@hkt.example"))
		Expect(job.ReplyTo).To(Equal("sam@example.com"))
		Expect(job.Attempt).To(Equal(1))
		Expect(job.ID).NotTo(BeZero())
		Expect(job.Data).To(HaveKeyWithValue("message", "Do you allow pets?"))
	})

	It("truncates very long messages", func() {
		Expect(svc.Submit(context.Background(), "Sam", "sam@example.com", strings.Repeat("x", 6000))).To(Succeed())
		Expect(producer.jobs[0].Data["message"]).To(HaveLen(5000))
	})

	It("rejects incomplete submissions", func() {
		err := svc.Submit(context.Background(), "", "sam@example.com", "hi")
		Expect(err).To(MatchError(service.ErrInvalidContact))

		err = svc.Submit(context.Background(), "Sam", "not-an-email", "hi")
		Expect(err).To(MatchError(service.ErrInvalidContact))
		Expect(producer.jobs).To(BeEmpty())
	})

	It("is a no-op without a producer", func() {
		quiet := service.NewContactService(service.NewNotifier(nil), "support@hkt.example")
		Expect(quiet.Submit(context.Background(), "Sam", "sam@example.com", "hi")).To(Succeed())
	})
})
