package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hktplatform.app/api/core/config"
)

// ErrPermanent marks a delivery failure that retrying cannot fix.
var ErrPermanent = errors.New("permanent delivery failure")

type Address struct {
	Name  string
	Email string
}

type Email struct {
	From    Address
	To      Address
	ReplyTo string
	Subject string
	Text    string
}

// Sender delivers a rendered email through a provider.
type Sender interface {
	Send(ctx context.Context, email Email) error
	Name() string
}

func NewSender(cfg config.MailConfig, logger *slog.Logger) (Sender, error) {
	switch cfg.Provider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid: missing api key")
		}
		return NewSendGridSender(cfg.SendGridAPIKey), nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("resend: missing api key")
		}
		return NewResendSender(cfg.ResendAPIKey), nil
	case "log", "":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}
