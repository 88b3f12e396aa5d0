package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hktplatform.app/api/internal/model"
)

// ErrCacheMiss is returned when no price is cached for a symbol.
var ErrCacheMiss = errors.New("price not cached")

// Cache holds the latest price per symbol, shared across API instances.
type Cache interface {
	Get(ctx context.Context, symbol string) (*model.Price, error)
	Set(ctx context.Context, price model.Price) error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

func cacheKey(symbol string) string {
	return "price:" + symbol
}

func (c *redisCache) Get(ctx context.Context, symbol string) (*model.Price, error) {
	raw, err := c.client.Get(ctx, cacheKey(symbol)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", symbol, err)
	}

	var price model.Price
	if err := json.Unmarshal(raw, &price); err != nil {
		return nil, fmt.Errorf("decoding cached %s: %w", symbol, err)
	}
	return &price, nil
}

func (c *redisCache) Set(ctx context.Context, price model.Price) error {
	raw, err := json.Marshal(price)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", price.Symbol, err)
	}
	if err := c.client.Set(ctx, cacheKey(price.Symbol), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", price.Symbol, err)
	}
	return nil
}
