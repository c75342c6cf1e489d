// Package cache connects the API to Redis, which backs the idempotency
// guard on investment submissions.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 5 * time.Second

// Open connects to Redis and pings it once so a bad address fails at startup.
func Open(addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Checker reports Redis reachability for the health endpoint.
type Checker struct {
	rdb *redis.Client
}

// NewChecker wraps rdb for health checks.
func NewChecker(rdb *redis.Client) *Checker {
	return &Checker{rdb: rdb}
}

// Ping implements handlers.Pinger.
func (c *Checker) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
