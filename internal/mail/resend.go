package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type resendSender struct {
	client *resend.Client
}

func NewResendSender(apiKey string) Sender {
	return &resendSender{client: resend.NewClient(apiKey)}
}

func (s *resendSender) Name() string { return "resend" }

func (s *resendSender) Send(ctx context.Context, email Email) error {
	params := &resend.SendEmailRequest{
		From:    formatAddress(email.From),
		To:      []string{email.To.Email},
		Subject: email.Subject,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}

func formatAddress(a Address) string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}
