package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/sales-api/internal/resilience"
)

// Allower decides whether one more event for key fits within max events per window.
type Allower interface {
	Allow(ctx context.Context, key string, window time.Duration, max int) (allowed bool, remaining int, reset time.Time, err error)
}

// Limiter implements a sliding window rate limiter backed by Redis sorted sets. When Breaker
// is set and open, decisions are delegated to Fallback, or fail with the breaker error.
type Limiter struct {
	Client   redis.UniversalClient
	Prefix   string
	Breaker  *resilience.Breaker
	Fallback Allower
}

// Allow registers an event for the given key and returns whether it is within the limit.
func (l Limiter) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, int, time.Time, error) {
	if l.Client == nil || max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}
	if l.Breaker == nil {
		return l.allow(ctx, key, window, max)
	}

	var (
		allowed   bool
		remaining int
		reset     time.Time
	)
	err := l.Breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		allowed, remaining, reset, err = l.allow(ctx, key, window, max)
		return err
	})
	if errors.Is(err, resilience.ErrOpenCircuit) && l.Fallback != nil {
		return l.Fallback.Allow(ctx, key, window, max)
	}
	return allowed, remaining, reset, err
}

func (l Limiter) allow(ctx context.Context, key string, window time.Duration, max int) (bool, int, time.Time, error) {
	now := time.Now()
	until := now.Add(window)
	cutoff := float64(now.Add(-window).UnixNano())

	redisKey := l.Prefix + key
	member := fmt.Sprintf("%s:%s", key, uuid.NewString())

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", fmt.Sprintf("%f", cutoff))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, until, fmt.Errorf("ratelimit: redis window: %w", err)
	}

	current := int(countCmd.Val())
	remaining := max - current
	if remaining < 0 {
		remaining = 0
	}
	return current <= max, remaining, until, nil
}
