package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "contractpay:idem:"

type RedisStore struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewRedisStore(rdb goredis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Begin(ctx context.Context, key, fingerprint string) (*Response, error) {
	raw, err := json.Marshal(record{Pending: true, Fingerprint: fingerprint})
	if err != nil {
		return nil, err
	}
	ok, err := s.rdb.SetNX(ctx, keyPrefix+key, raw, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return nil, nil
	}
	existing, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		// Expired between SETNX and GET; claim again.
		return s.Begin(ctx, key, fingerprint)
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}
	var rec record
	if err := json.Unmarshal(existing, &rec); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return resolve(rec, fingerprint)
}

func (s *RedisStore) Complete(ctx context.Context, key string, resp Response) error {
	raw, err := json.Marshal(record{Fingerprint: resp.Fingerprint, Response: &resp})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+key, raw, s.ttl).Err()
}

func (s *RedisStore) Abort(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, keyPrefix+key).Err()
}
