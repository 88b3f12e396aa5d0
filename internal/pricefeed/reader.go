package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/shopspring/decimal"

	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/store"
)

var (
	ErrUnknownSymbol    = errors.New("unknown price symbol")
	ErrPriceUnavailable = errors.New("price unavailable")
)

const (
	localTTL       = time.Hour
	fallbackSource = "fallback"
)

// Reader resolves the latest price for a symbol from, in order: the shared
// cache, the in-process cache, the last database snapshot, and for HKT the
// configured fallback price.
type Reader struct {
	cache       Cache
	local       *ccache.Cache[model.Price]
	prices      store.PriceStore
	symbols     map[string]bool
	hktFallback decimal.Decimal
}

func NewReader(cache Cache, prices store.PriceStore, symbols []string, hktFallback decimal.Decimal) *Reader {
	tracked := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		tracked[strings.ToUpper(s)] = true
	}
	return &Reader{
		cache:       cache,
		local:       ccache.New(ccache.Configure[model.Price]().MaxSize(256)),
		prices:      prices,
		symbols:     tracked,
		hktFallback: hktFallback,
	}
}

func (r *Reader) Symbols() []string {
	out := make([]string, 0, len(r.symbols))
	for s := range r.symbols {
		out = append(out, s)
	}
	return out
}

func (r *Reader) Get(ctx context.Context, symbol string) (*model.Price, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !r.symbols[symbol] {
		return nil, ErrUnknownSymbol
	}

	price, err := r.cache.Get(ctx, symbol)
	switch {
	case err == nil:
		r.local.Set(symbol, *price, localTTL)
		return price, nil
	case !errors.Is(err, ErrCacheMiss):
		slog.WarnContext(ctx, "shared price cache unavailable", "error", err, "symbol", symbol)
	}

	if item := r.local.Get(symbol); item != nil && !item.Expired() {
		p := item.Value()
		return &p, nil
	}

	snap, err := r.prices.Latest(ctx, symbol)
	switch {
	case err == nil:
		r.local.Set(symbol, snap.Price, localTTL)
		return &snap.Price, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("loading last %s snapshot: %w", symbol, err)
	}

	if symbol == "HKT" && r.hktFallback.IsPositive() {
		return &model.Price{
			Symbol:     symbol,
			PriceUSD:   r.hktFallback,
			Source:     fallbackSource,
			ObservedAt: time.Now().UTC(),
		}, nil
	}

	return nil, ErrPriceUnavailable
}

// List returns every tracked symbol that currently has a price.
func (r *Reader) List(ctx context.Context) ([]model.Price, error) {
	symbols := r.Symbols()
	sortSymbols(symbols)

	prices := make([]model.Price, 0, len(symbols))
	for _, symbol := range symbols {
		p, err := r.Get(ctx, symbol)
		if errors.Is(err, ErrPriceUnavailable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		prices = append(prices, *p)
	}
	return prices, nil
}

func (r *Reader) History(ctx context.Context, symbol string, since time.Time, limit int32) ([]model.PriceSnapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !r.symbols[symbol] {
		return nil, ErrUnknownSymbol
	}
	snaps, err := r.prices.History(ctx, symbol, since, limit)
	if err != nil {
		return nil, fmt.Errorf("listing %s history: %w", symbol, err)
	}
	return snaps, nil
}

// sortSymbols orders HKT first, then alphabetically.
func sortSymbols(symbols []string) {
	slices.SortFunc(symbols, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == "HKT":
			return -1
		case b == "HKT":
			return 1
		}
		return strings.Compare(a, b)
	})
}
