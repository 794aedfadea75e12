package redis

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func setupTestClient(t *testing.T) *IdempotencyStore {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client, err := Connect(context.Background(), Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client)
}

func TestIdempotencyStore_RememberAndLookup(t *testing.T) {
	store := setupTestClient(t)
	ctx := context.Background()
	owner := uuid.NewString()
	key := uuid.NewString()

	if _, found, err := store.Lookup(ctx, owner, key); err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	if err := store.Remember(ctx, owner, key, 42); err != nil {
		t.Fatalf("Remember() error = %v", err)
	}
	// First write wins.
	if err := store.Remember(ctx, owner, key, 99); err != nil {
		t.Fatalf("Remember() error = %v", err)
	}

	id, found, err := store.Lookup(ctx, owner, key)
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if id != 42 {
		t.Errorf("expected id 42, got %d", id)
	}

	if _, found, _ := store.Lookup(ctx, uuid.NewString(), key); found {
		t.Errorf("keys must be scoped per owner")
	}
}

func TestIdempotencyStore_KeyFormat(t *testing.T) {
	s := &IdempotencyStore{}
	if got := s.key("user-1", "abc"); got != "idem:task:user-1:abc" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestConnect_UnreachableServerFails(t *testing.T) {
	// Port 1 on loopback is not a Redis server.
	client, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	if err == nil {
		_ = client.Close()
		t.Fatalf("expected connect error")
	}
	if !strings.Contains(err.Error(), "idempotency store") {
		t.Errorf("expected error to name the idempotency store, got %v", err)
	}
}
