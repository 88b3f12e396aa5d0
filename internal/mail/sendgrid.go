package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridSender struct {
	client *sendgrid.Client
}

func NewSendGridSender(apiKey string) Sender {
	return &sendGridSender{client: sendgrid.NewSendClient(apiKey)}
}

func (s *sendGridSender) Name() string { return "sendgrid" }

func (s *sendGridSender) Send(ctx context.Context, email Email) error {
	from := sgmail.NewEmail(email.From.Name, email.From.Email)
	to := sgmail.NewEmail(email.To.Name, email.To.Email)

	message := sgmail.NewSingleEmailPlainText(from, email.Subject, to, email.Text)
	if email.ReplyTo != "" {
		message.SetReplyTo(sgmail.NewEmail("", email.ReplyTo))
	}

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	return classifyStatus("sendgrid", resp.StatusCode, resp.Body)
}

// classifyStatus turns a provider HTTP status into a delivery error.
// 4xx other than 429 is not retried.
func classifyStatus(provider string, status int, body string) error {
	switch {
	case status < 300:
		return nil
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%s send: status %d: %s", provider, status, body)
	default:
		return fmt.Errorf("%s send: status %d: %s: %w", provider, status, body, ErrPermanent)
	}
}
