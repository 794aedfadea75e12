// Package redis backs the optional Idempotency-Key store for task creation.
// The service runs without it when REDIS_ADDR is empty.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 5 * time.Second

// Config holds the connection settings read from REDIS_ADDR and REDIS_DB.
type Config struct {
	Addr string
	DB   int
	// DialTimeout bounds the startup ping; dialTimeout applies when zero.
	DialTimeout time.Duration
}

// Connect opens the client the idempotency store uses and pings it once.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = dialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect idempotency store at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// Pinger reports the key store to /health/ready as "redis".
type Pinger struct {
	client *redis.Client
}

func NewPinger(client *redis.Client) *Pinger {
	return &Pinger{client: client}
}

func (p *Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
