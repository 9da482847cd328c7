package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisChecker probes a Redis client.
type RedisChecker struct {
	Client redis.UniversalClient
}

// PingRedis issues a PING bounded by timeout.
func (c RedisChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Client.Ping(ctx).Err()
}
