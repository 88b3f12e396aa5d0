package mail

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"hktplatform.app/api/core/config"
	"hktplatform.app/api/internal/domain"
)

// Dispatcher renders email jobs and hands them to a Sender.
type Dispatcher struct {
	sender       Sender
	from         Address
	frontendURL  string
	supportEmail string
}

func NewDispatcher(sender Sender, cfg config.MailConfig, frontendURL string) *Dispatcher {
	return &Dispatcher{
		sender:       sender,
		from:         Address{Name: cfg.FromName, Email: cfg.FromAddress},
		frontendURL:  frontendURL,
		supportEmail: cfg.SupportEmail,
	}
}

func (d *Dispatcher) Deliver(ctx context.Context, job domain.EmailJob) error {
	data := map[string]string{
		"frontend_url":  d.frontendURL,
		"support_email": d.supportEmail,
	}
	maps.Copy(data, job.Data)

	subject, body, err := Render(job.Kind, data)
	if err != nil {
		return err
	}

	email := Email{
		From:    d.from,
		To:      Address{Name: job.Data["name"], Email: job.To},
		ReplyTo: job.ReplyTo,
		Subject: subject,
		Text:    body,
	}
	// Contact form mail goes to the support inbox; the visitor's name is not the recipient's.
	if job.Kind == domain.EmailContactMessage {
		email.To.Name = ""
	}

	if err := d.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("delivering %s via %s: %w", job.Kind, d.sender.Name(), err)
	}

	slog.InfoContext(ctx, "email delivered", "kind", job.Kind, "provider", d.sender.Name())
	return nil
}
