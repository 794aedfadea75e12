package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskly/taskly-api/internal/core/ports"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore records which task an Idempotency-Key produced.
// Key format: idem:task:<owner_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// Lookup returns the task id stored for key.
func (s *IdempotencyStore) Lookup(ctx context.Context, ownerID, key string) (int64, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.key(ownerID, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: corrupt value %q", val)
	}
	return id, true, nil
}

// Remember stores the task id for key (expires after idempotencyTTL). An
// existing entry is left untouched.
func (s *IdempotencyStore) Remember(ctx context.Context, ownerID, key string, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := s.client.SetNX(ctx, s.key(ownerID, key), id, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(ownerID, key string) string {
	return fmt.Sprintf("idem:task:%s:%s", ownerID, key)
}
