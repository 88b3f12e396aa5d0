package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hktplatform.app/api/common/id"
	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/queue"
)

var ErrInvalidContact = errors.New("name, email and message are required")

const maxContactMessage = 5000

// Notifier queues transactional emails. Delivery failures never fail the
// request that triggered them.
type Notifier struct {
	producer queue.Producer
}

func NewNotifier(producer queue.Producer) *Notifier {
	return &Notifier{producer: producer}
}

func (n *Notifier) Send(ctx context.Context, kind domain.EmailKind, to string, data map[string]string) {
	n.send(ctx, domain.EmailJob{Kind: kind, To: to, Data: data})
}

func (n *Notifier) send(ctx context.Context, job domain.EmailJob) {
	if n == nil || n.producer == nil {
		return
	}

	job.ID = id.New()
	job.Attempt = 1
	job.CreatedAt = time.Now().UTC()
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		job.TraceID = &traceID
	}

	if err := n.producer.Enqueue(ctx, job); err != nil {
		slog.WarnContext(ctx, "failed to enqueue email", "error", err, "kind", job.Kind, "job_id", job.ID)
	}
}

type ContactService interface {
	Submit(ctx context.Context, name, email, message string) error
}

type contactService struct {
	notifier     *Notifier
	supportEmail string
}

func NewContactService(notifier *Notifier, supportEmail string) ContactService {
	return &contactService{notifier: notifier, supportEmail: supportEmail}
}

func (s *contactService) Submit(ctx context.Context, name, email, message string) error {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	message = strings.TrimSpace(message)
	if name == "" || message == "" || !validEmail(email) {
		return ErrInvalidContact
	}
	message = truncateRunes(message, maxContactMessage)

	s.notifier.send(ctx, domain.EmailJob{
		Kind:    domain.EmailContactMessage,
		To:      s.supportEmail,
		ReplyTo: email,
		Data: map[string]string{
			"name":    name,
			"email":   email,
			"message": message,
		},
	})

	slog.InfoContext(ctx, "contact message received", "reply_to", email)
	return nil
}
