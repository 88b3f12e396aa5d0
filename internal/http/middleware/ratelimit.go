package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/karlseguin/ccache/v3"
	"golang.org/x/time/rate"

	"hktplatform.app/api/internal/metrics"
)

const limiterIdleTTL = 10 * time.Minute

// RateLimiter hands out one token bucket per client key. Idle buckets are
// evicted by the cache.
type RateLimiter struct {
	scope    string
	limit    rate.Limit
	burst    int
	limiters *ccache.Cache[*rate.Limiter]
}

// NewRateLimiter allows perMinute requests per client per minute, bursting to
// the same amount. perMinute <= 0 disables limiting.
func NewRateLimiter(scope string, perMinute int) *RateLimiter {
	rl := &RateLimiter{
		scope:    scope,
		burst:    perMinute,
		limiters: ccache.New(ccache.Configure[*rate.Limiter]().MaxSize(10_000)),
	}
	if perMinute > 0 {
		rl.limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return rl
}

func (rl *RateLimiter) Allow(key string) bool {
	if rl.burst <= 0 {
		return true
	}
	item, _ := rl.limiters.Fetch(key, limiterIdleTTL, func() (*rate.Limiter, error) {
		return rate.NewLimiter(rl.limit, rl.burst), nil
	})
	item.Extend(limiterIdleTTL)
	return item.Value().Allow()
}

// Handler keys buckets by session user when present, else by client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if user := GetUser(c.Request.Context()); user != nil {
			key = "user:" + strconv.FormatInt(user.ID, 10)
		}

		if !rl.Allow(key) {
			metrics.RecordRateLimited(rl.scope)
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests", "code": "rate_limited"})
			return
		}
		c.Next()
	}
}
