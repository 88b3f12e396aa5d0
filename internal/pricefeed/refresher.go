package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"hktplatform.app/api/common/id"
	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/internal/metrics"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/store"
)

// Refresher polls every Source on a cron schedule and publishes the results
// to the shared cache and the snapshot table.
type Refresher struct {
	sources []Source
	cache   Cache
	prices  store.PriceStore
	timeout time.Duration
	newID   func() int64

	cron *cron.Cron
}

func NewRefresher(sources []Source, cache Cache, prices store.PriceStore) *Refresher {
	return &Refresher{
		sources: sources,
		cache:   cache,
		prices:  prices,
		timeout: 20 * time.Second,
		newID:   id.New,
	}
}

// Start schedules RefreshOnce and runs it immediately in the background.
func (r *Refresher) Start(ctx context.Context, schedule string) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "hkt.prices.refresher"})

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() { r.run(ctx) }); err != nil {
		return fmt.Errorf("scheduling price refresh %q: %w", schedule, err)
	}
	r.cron = c
	c.Start()

	go r.run(ctx)

	slog.InfoContext(ctx, "price refresher started", "schedule", schedule, "sources", len(r.sources))
	return nil
}

// Stop waits for a running refresh to finish.
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}

func (r *Refresher) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.RefreshOnce(ctx); err != nil {
		slog.WarnContext(ctx, "price refresh incomplete", "error", err)
	}
}

// RefreshOnce fetches from every source. A failing source does not stop the
// others; the returned error joins all failures.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	sc := logger.StartSpan(ctx, "prices.refresh")
	defer sc.End()
	ctx = sc.Context()

	var errs []error
	for _, source := range r.sources {
		prices, err := source.Fetch(ctx)
		metrics.RecordPriceFetch(source.Name(), err == nil)
		// Sources may return partial results alongside an error.
		for _, price := range prices {
			if perr := r.publish(ctx, price); perr != nil {
				errs = append(errs, perr)
			}
		}
		if err != nil {
			slog.WarnContext(ctx, "price source failed", "source", source.Name(), "error", err)
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	sc.RecordError(err)
	return err
}

func (r *Refresher) publish(ctx context.Context, price model.Price) error {
	if err := r.cache.Set(ctx, price); err != nil {
		slog.WarnContext(ctx, "caching price failed", "symbol", price.Symbol, "error", err)
	}

	snap := &model.PriceSnapshot{ID: r.newID(), Price: price}
	if err := r.prices.Insert(ctx, snap); err != nil {
		return fmt.Errorf("saving %s snapshot: %w", price.Symbol, err)
	}

	slog.DebugContext(ctx, "price refreshed", "symbol", price.Symbol, "price_usd", price.PriceUSD.String(), "source", price.Source)
	return nil
}
