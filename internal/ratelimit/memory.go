package ratelimit

import (
	"context"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// StoreLimiter adapts a ulule limiter store to Allower. It serves single-instance
// deployments and stands in for Redis while the Redis breaker is open.
type StoreLimiter struct {
	Store limiter.Store
}

// NewMemoryLimiter returns a process-local fixed window limiter.
func NewMemoryLimiter(prefix string) StoreLimiter {
	return StoreLimiter{Store: memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          prefix,
		CleanUpInterval: time.Minute,
	})}
}

// Allow consumes one token for key from a window/max rate.
func (s StoreLimiter) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, int, time.Time, error) {
	if s.Store == nil || max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}
	lctx, err := limiter.New(s.Store, limiter.Rate{Period: window, Limit: int64(max)}).Get(ctx, key)
	if err != nil {
		return false, 0, time.Now().Add(window), err
	}
	return !lctx.Reached, int(lctx.Remaining), time.Unix(lctx.Reset, 0), nil
}
