package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/common/otel"
	"hktplatform.app/api/core/config"
	"hktplatform.app/api/internal/mail"
	"hktplatform.app/api/internal/queue"
	"hktplatform.app/api/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "hkt notification worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Notifications.Group,
		"consumer_name", cfg.Notifications.Consumer,
		"mail_provider", cfg.Mail.Provider)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Notifications.Stream)

	consumer, err := queue.NewRedisConsumer(ctx, redisClient, queue.ConsumerConfig{
		Stream:       cfg.Notifications.Stream,
		Group:        cfg.Notifications.Group,
		Consumer:     cfg.Notifications.Consumer,
		DLQStream:    cfg.Notifications.DLQStream,
		BatchSize:    10,
		Block:        5 * time.Second,
		MaxAttempts:  cfg.Notifications.MaxAttempts,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	sender, err := mail.NewSender(cfg.Mail, slog.Default())
	if err != nil {
		slog.ErrorContext(ctx, "failed to create mail sender", "error", err)
		os.Exit(1)
	}
	dispatcher := mail.NewDispatcher(sender, cfg.Mail, cfg.FrontendURL)

	w := worker.New(consumer, dispatcher, worker.Config{
		MaxAttempts: cfg.Notifications.MaxAttempts,
	})

	reclaimer := worker.NewRedisReclaimer(redisClient, worker.RedisReclaimerConfig{
		Stream:        cfg.Notifications.Stream,
		Group:         cfg.Notifications.Group,
		Consumer:      cfg.Notifications.Consumer + "-reclaimer",
		MinIdle:       cfg.Notifications.ReclaimAfter,
		Interval:      time.Minute,
		BatchSize:     10,
		MaxDeliveries: cfg.Notifications.MaxDeliveries,
	}, consumer, w.HandleMessage)

	errCh := make(chan error, 2)
	go func() {
		errCh <- w.Run(ctx)
	}()
	go func() {
		reclaimer.Run(ctx)
		errCh <- nil
	}()

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Stop reclaimer first (quick)
	reclaimer.Stop()

	// Stop worker (may be mid-send)
	w.Stop()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "worker error during shutdown", "error", err)
		}
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
██╗  ██╗██╗  ██╗████████╗    ███╗   ███╗ █████╗ ██╗██╗     
██║  ██║██║ ██╔╝╚══██╔══╝    ████╗ ████║██╔══██╗██║██║     
███████║█████╔╝    ██║       ██╔████╔██║███████║██║██║     
██╔══██║██╔═██╗    ██║       ██║╚██╔╝██║██╔══██║██║██║     
██║  ██║██║  ██╗   ██║       ██║ ╚═╝ ██║██║  ██║██║███████╗
╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝       ╚═╝     ╚═╝╚═╝  ╚═╝╚═╝╚══════╝
`
