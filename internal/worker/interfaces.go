package worker

import (
	"context"

	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// Deliverer renders and sends one email job.
type Deliverer interface {
	Deliver(ctx context.Context, job domain.EmailJob) error
}
