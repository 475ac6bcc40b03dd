// Package cache provides a small Valkey/Redis-backed byte cache used to keep
// recently fetched dashboard pages warm across restarts, with an in-memory
// fallback when no external cache is reachable.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/platformbuilds/mirador-httptop/pkg/logger"
)

type ViewCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type valkeyCache struct {
	client *redis.Client
	logger logger.Logger
	ttl    time.Duration
}

// NewValkeyCache connects to a single-node Valkey/Redis instance. The
// connection is verified up front so callers can fall back to the in-memory
// cache before the dashboard starts.
func NewValkeyCache(addr, password string, db int, defaultTTL time.Duration, log logger.Logger) (ViewCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &valkeyCache{client: client, logger: log, ttl: defaultTTL}, nil
}

func (v *valkeyCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := v.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (v *valkeyCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := encodeValue(value)
	if err != nil {
		return fmt.Errorf("marshal value for key %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = v.ttl
	}
	return v.client.Set(ctx, key, data, ttl).Err()
}

func (v *valkeyCache) Delete(ctx context.Context, key string) error {
	return v.client.Del(ctx, key).Err()
}

func encodeValue(value interface{}) ([]byte, error) {
	switch x := value.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	default:
		return json.Marshal(x)
	}
}
