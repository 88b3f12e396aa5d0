package service

import (
	"context"
	"time"

	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/pricefeed"
)

var (
	ErrUnknownSymbol    = pricefeed.ErrUnknownSymbol
	ErrPriceUnavailable = pricefeed.ErrPriceUnavailable
)

const (
	defaultHistoryLimit  = 100
	maxHistoryLimit      = 1000
	defaultHistoryWindow = 7 * 24 * time.Hour
)

// PriceReader resolves cached token prices.
type PriceReader interface {
	Get(ctx context.Context, symbol string) (*model.Price, error)
	List(ctx context.Context) ([]model.Price, error)
	History(ctx context.Context, symbol string, since time.Time, limit int32) ([]model.PriceSnapshot, error)
}

type PriceService interface {
	List(ctx context.Context) ([]model.Price, error)
	Get(ctx context.Context, symbol string) (*model.Price, error)
	History(ctx context.Context, symbol string, since *time.Time, limit int32) ([]model.PriceSnapshot, error)
}

type priceService struct {
	reader PriceReader
	now    func() time.Time
}

func NewPriceService(reader PriceReader) PriceService {
	return &priceService{reader: reader, now: time.Now}
}

func (s *priceService) List(ctx context.Context) ([]model.Price, error) {
	return s.reader.List(ctx)
}

func (s *priceService) Get(ctx context.Context, symbol string) (*model.Price, error) {
	return s.reader.Get(ctx, symbol)
}

func (s *priceService) History(ctx context.Context, symbol string, since *time.Time, limit int32) ([]model.PriceSnapshot, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	from := s.now().Add(-defaultHistoryWindow)
	if since != nil {
		from = *since
	}
	return s.reader.History(ctx, symbol, from, limit)
}
