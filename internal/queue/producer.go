package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"hktplatform.app/api/internal/domain"
)

type Producer interface {
	Enqueue(ctx context.Context, job domain.EmailJob) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, job domain.EmailJob) error {
	if !job.Kind.Valid() {
		return fmt.Errorf("enqueue email: unknown kind %q", job.Kind)
	}
	if job.To == "" {
		return fmt.Errorf("enqueue email: missing recipient")
	}
	if job.Attempt <= 0 {
		job.Attempt = 1
	}

	fields, err := jobValues(job)
	if err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued email job", "job_id", job.ID, "kind", job.Kind, "attempt", job.Attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
