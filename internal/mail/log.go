package mail

import (
	"context"
	"log/slog"
)

// logSender writes emails to the log instead of delivering them. Used in development.
type logSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &logSender{logger: logger}
}

func (s *logSender) Name() string { return "log" }

func (s *logSender) Send(ctx context.Context, email Email) error {
	s.logger.InfoContext(ctx, "email (not delivered)",
		"to", email.To.Email,
		"reply_to", email.ReplyTo,
		"subject", email.Subject,
		"body", email.Text)
	return nil
}
