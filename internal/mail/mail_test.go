package mail_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hktplatform.app/api/core/config"
	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/mail"
)

var _ = Describe("Render", func() {
	It("renders a booking confirmation", func() {
		subject, body, err := mail.Render(domain.EmailBookingConfirmed, map[string]string{
			"name":              "Ada",
			"property":          "Harbour Loft",
			"booking_id":        "42",
			"check_in":          "2026-11-01",
			"check_out":         "2026-11-05",
			"guests":            "2",
			"total":             "410",
			"payment_reference": "PAY-1",
			"frontend_url":      "https://hkt.example",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(subject).To(Equal("Booking confirmed: Harbour Loft"))
		Expect(body).To(ContainSubstring("Total:     410 HKT"))
		Expect(body).To(ContainSubstring("https://hkt.example/bookings/42"))
	})

	It("fails permanently when a variable is missing", func() {
		_, _, err := mail.Render(domain.EmailWelcome, map[string]string{})
		Expect(errors.Is(err, mail.ErrPermanent)).To(BeTrue())
	})

	It("fails permanently for an unknown kind", func() {
		_, _, err := mail.Render(domain.EmailKind("newsletter"), nil)
		Expect(errors.Is(err, mail.ErrPermanent)).To(BeTrue())
	})
})

var _ = Describe("Dispatcher", func() {
	var (
		sender     *mockSender
		dispatcher *mail.Dispatcher
		ctx        context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		sender = &mockSender{}
		dispatcher = mail.NewDispatcher(sender, config.MailConfig{
			FromAddress:  "no-reply@hkt.example",
			FromName:     "HKT",
			SupportEmail: "support@hkt.example",
		}, "https://hkt.example")
	})

	It("fills in shared variables and addresses", func() {
		err := dispatcher.Deliver(ctx, domain.EmailJob{
			Kind: domain.EmailWelcome,
			To:   "ada@example.com",
			Data: map[string]string{"name": "Ada"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(sender.sent).To(HaveLen(1))

		sent := sender.sent[0]
		Expect(sent.From).To(Equal(mail.Address{Name: "HKT", Email: "no-reply@hkt.example"}))
		Expect(sent.To).To(Equal(mail.Address{Name: "Ada", Email: "ada@example.com"}))
		Expect(sent.Subject).To(Equal("Welcome to HKT, Ada"))
		Expect(sent.Text).To(ContainSubstring("support@hkt.example"))
	})

	It("keeps the reply-to of contact messages", func() {
		err := dispatcher.Deliver(ctx, domain.EmailJob{
			Kind:    domain.EmailContactMessage,
			To:      "support@hkt.example",
			ReplyTo: "visitor@example.com",
			Data:    map[string]string{"name": "Visitor", "email": "visitor@example.com", "message": "hello"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(sender.sent[0].ReplyTo).To(Equal("visitor@example.com"))
		Expect(sender.sent[0].To.Name).To(BeEmpty())
	})

	It("does not call the sender when rendering fails", func() {
		err := dispatcher.Deliver(ctx, domain.EmailJob{Kind: domain.EmailBookingCancelled, To: "a@b.c"})
		Expect(errors.Is(err, mail.ErrPermanent)).To(BeTrue())
		Expect(sender.sent).To(BeEmpty())
	})

	It("wraps sender errors", func() {
		sender.sendFn = func(context.Context, mail.Email) error { return errors.New("boom") }
		err := dispatcher.Deliver(ctx, domain.EmailJob{
			Kind: domain.EmailPasswordChanged,
			To:   "ada@example.com",
			Data: map[string]string{"name": "Ada"},
		})
		Expect(err).To(MatchError(ContainSubstring("via mock: boom")))
	})
})

var _ = Describe("NewSender", func() {
	It("defaults to the log sender", func() {
		sender, err := mail.NewSender(config.MailConfig{}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(sender.Name()).To(Equal("log"))
	})

	It("requires an api key for sendgrid", func() {
		_, err := mail.NewSender(config.MailConfig{Provider: "sendgrid"}, nil)
		Expect(err).To(HaveOccurred())
	})

	It("builds a resend sender", func() {
		sender, err := mail.NewSender(config.MailConfig{Provider: "resend", ResendAPIKey: "re_test"}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(sender.Name()).To(Equal("resend"))
	})

	It("rejects unknown providers", func() {
		_, err := mail.NewSender(config.MailConfig{Provider: "pigeon"}, nil)
		Expect(err).To(HaveOccurred())
	})
})
