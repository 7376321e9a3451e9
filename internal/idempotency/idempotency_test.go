package idempotency

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := uuid.NewString()

	resp, err := s.Begin(ctx, key, "fp-1")
	if err != nil || resp != nil {
		t.Fatalf("first Begin: resp=%v err=%v", resp, err)
	}
	if _, err := s.Begin(ctx, key, "fp-1"); !errors.Is(err, ErrInFlight) {
		t.Fatalf("Begin while pending: want ErrInFlight got %v", err)
	}
	if err := s.Complete(ctx, key, Response{Status: 200, Body: []byte(`{"ok":true}`), Fingerprint: "fp-1"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	resp, err = s.Begin(ctx, key, "fp-1")
	if err != nil || resp == nil || resp.Status != 200 || string(resp.Body) != `{"ok":true}` {
		t.Fatalf("replay: resp=%+v err=%v", resp, err)
	}
	if _, err := s.Begin(ctx, key, "fp-2"); !errors.Is(err, ErrKeyReused) {
		t.Fatalf("Begin with other body: want ErrKeyReused got %v", err)
	}

	other := uuid.NewString()
	if _, err := s.Begin(ctx, other, "fp"); err != nil {
		t.Fatalf("Begin other: %v", err)
	}
	if err := s.Abort(ctx, other); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if resp, err := s.Begin(ctx, other, "fp"); err != nil || resp != nil {
		t.Fatalf("Begin after Abort: resp=%v err=%v", resp, err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Minute))
}

func TestMemoryStoreExpires(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if _, err := s.Begin(ctx, "k", "fp"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if resp, err := s.Begin(ctx, "k", "fp"); err != nil || resp != nil {
		t.Fatalf("Begin after expiry: resp=%v err=%v", resp, err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	exerciseStore(t, NewRedisStore(rdb, time.Minute))
}
