package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindow counts requests per key in Redis so every API replica shares
// the same budget. The first hit of a window sets the key's expiry.
type FixedWindow struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func (c *Client) FixedWindow(prefix string, limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		rdb:    c.redisdb,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

func (l *FixedWindow) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := l.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd

	_, err := l.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.ExpireNX(ctx, k, l.window)
		ttl = p.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", k, err)
	}

	if incr.Val() > l.limit {
		retry := ttl.Val()
		if retry < 0 {
			retry = l.window
		}
		return false, retry, nil
	}

	return true, 0, nil
}
