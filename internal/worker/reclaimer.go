package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/internal/metrics"
	"hktplatform.app/api/internal/queue"
)

type RedisReclaimerConfig struct {
	Stream   string
	Group    string
	Consumer string
	// MinIdle is how long an email job may sit unacknowledged before another
	// mailer takes it over.
	MinIdle   time.Duration
	Interval  time.Duration
	BatchSize int64
	// MaxDeliveries caps how often a stranded job is handed out. A job that
	// keeps killing its mailer is dead-lettered instead of resent.
	MaxDeliveries int64
}

// RedisReclaimer hands email jobs stranded by a crashed mailer to the worker
// again.
type RedisReclaimer struct {
	client  *redis.Client
	cfg     RedisReclaimerConfig
	mailbox Consumer
	deliver queue.MessageProcessor

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewRedisReclaimer(client *redis.Client, cfg RedisReclaimerConfig, mailbox Consumer, deliver queue.MessageProcessor) *RedisReclaimer {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.MaxDeliveries <= 0 {
		cfg.MaxDeliveries = 5
	}
	return &RedisReclaimer{
		client:    client,
		cfg:       cfg,
		mailbox:   mailbox,
		deliver:   deliver,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (r *RedisReclaimer) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "hkt.worker.reclaimer"})
	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "mail reclaimer started",
		"every", r.cfg.Interval,
		"stranded_after", r.cfg.MinIdle,
		"max_deliveries", r.cfg.MaxDeliveries)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			if n, err := r.sweep(ctx); err != nil {
				slog.ErrorContext(ctx, "stranded mail sweep failed", "error", err)
			} else if n > 0 {
				slog.InfoContext(ctx, "stranded mail sweep finished", "jobs", n)
			}
		}
	}
}

func (r *RedisReclaimer) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// sweep claims up to BatchSize stranded jobs and returns how many it saw.
func (r *RedisReclaimer) sweep(ctx context.Context) (int, error) {
	stranded, err := r.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: r.cfg.Stream,
		Group:  r.cfg.Group,
		Idle:   r.cfg.MinIdle,
		Start:  "-",
		End:    "+",
		Count:  r.cfg.BatchSize,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("listing stranded mail: %w", err)
	}

	for _, p := range stranded {
		msgID := p.ID
		jobCtx := logger.WithLogFields(ctx, logger.LogFields{MessageID: &msgID})
		if err := r.claim(jobCtx, p); err != nil {
			slog.ErrorContext(jobCtx, "could not take over stranded mail",
				"error", err,
				"mailer", p.Consumer,
				"idle", p.Idle)
		}
	}
	return len(stranded), nil
}

func (r *RedisReclaimer) claim(ctx context.Context, p redis.XPendingExt) error {
	claimed, err := r.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   r.cfg.Stream,
		Group:    r.cfg.Group,
		Consumer: r.cfg.Consumer,
		MinIdle:  r.cfg.MinIdle,
		Messages: []string{p.ID},
	}).Result()
	if err != nil {
		return fmt.Errorf("claiming %s: %w", p.ID, err)
	}
	// Another reclaimer got there first.
	if len(claimed) == 0 {
		return nil
	}
	return r.redeliver(ctx, claimed[0], p.RetryCount)
}

// redeliver hands a claimed job back to the mailer. deliveries is the stream's
// count of how often the job has been handed out so far.
func (r *RedisReclaimer) redeliver(ctx context.Context, raw redis.XMessage, deliveries int64) error {
	msg, err := queue.ParseMessage(raw)
	if err != nil {
		// Unreadable jobs can never be sent; drop them so they stop resurfacing.
		slog.ErrorContext(ctx, "dropping unreadable stranded mail", "error", err)
		_ = r.mailbox.Ack(ctx, queue.Message{ID: raw.ID, Raw: raw})
		return nil
	}

	kind := string(msg.Job.Kind)
	if deliveries >= r.cfg.MaxDeliveries {
		reason := fmt.Sprintf("stranded after %d deliveries", deliveries)
		slog.WarnContext(ctx, "dead-lettering stranded mail", "kind", kind, "deliveries", deliveries)
		if err := r.mailbox.SendDLQ(ctx, msg, reason); err != nil {
			return fmt.Errorf("dead-lettering: %w", err)
		}
		metrics.RecordEmailJob(kind, metrics.OutcomeDLQ)
		return nil
	}

	metrics.RecordEmailJob(kind, metrics.OutcomeReclaimed)
	if err := r.deliver(ctx, msg); err != nil {
		return fmt.Errorf("redelivering %s: %w", kind, err)
	}
	return nil
}
