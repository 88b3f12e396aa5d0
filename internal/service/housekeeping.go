package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/internal/store"
)

// Housekeeper removes expired sessions, stale wallet challenges and price
// snapshots older than the retention window.
type Housekeeper struct {
	sessions   store.SessionStore
	challenges store.ChallengeStore
	prices     store.PriceStore
	retention  time.Duration
	now        func() time.Time

	cron *cron.Cron
}

type SweepResult struct {
	Sessions   int64
	Challenges int64
	Snapshots  int64
}

func NewHousekeeper(sessions store.SessionStore, challenges store.ChallengeStore, prices store.PriceStore, retention time.Duration) *Housekeeper {
	return &Housekeeper{
		sessions:   sessions,
		challenges: challenges,
		prices:     prices,
		retention:  retention,
		now:        time.Now,
	}
}

func (h *Housekeeper) Start(ctx context.Context, schedule string) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "hkt.housekeeping"})

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() { h.run(ctx) }); err != nil {
		return fmt.Errorf("scheduling housekeeping %q: %w", schedule, err)
	}
	h.cron = c
	c.Start()

	slog.InfoContext(ctx, "housekeeping scheduled", "schedule", schedule, "retention", h.retention.String())
	return nil
}

func (h *Housekeeper) Stop() {
	if h.cron == nil {
		return
	}
	<-h.cron.Stop().Done()
}

func (h *Housekeeper) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	res, err := h.Sweep(ctx)
	if err != nil {
		slog.WarnContext(ctx, "housekeeping incomplete", "error", err)
	}
	slog.InfoContext(ctx, "housekeeping finished",
		"sessions", res.Sessions,
		"challenges", res.Challenges,
		"snapshots", res.Snapshots)
}

// Sweep runs every cleanup step; one failing step does not skip the others.
func (h *Housekeeper) Sweep(ctx context.Context) (SweepResult, error) {
	var (
		res  SweepResult
		errs []error
		err  error
	)

	if res.Sessions, err = h.sessions.DeleteExpired(ctx); err != nil {
		errs = append(errs, fmt.Errorf("deleting expired sessions: %w", err))
	}
	if res.Challenges, err = h.challenges.DeleteExpired(ctx); err != nil {
		errs = append(errs, fmt.Errorf("deleting expired challenges: %w", err))
	}
	if h.retention > 0 {
		if res.Snapshots, err = h.prices.DeleteBefore(ctx, h.now().Add(-h.retention)); err != nil {
			errs = append(errs, fmt.Errorf("pruning price snapshots: %w", err))
		}
	}

	return res, errors.Join(errs...)
}
