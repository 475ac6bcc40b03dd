package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/platformbuilds/mirador-httptop/pkg/logger"
)

// noopCache is a process-local fallback that satisfies ViewCache when the
// external cache is unavailable. Entries still expire so a long-running
// dashboard does not serve arbitrarily stale pages.
type noopCache struct {
	mu     sync.RWMutex
	m      map[string]noopEntry
	logger logger.Logger
}

type noopEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewNoopCache(log logger.Logger) ViewCache {
	log.Warn("Valkey cache unavailable; using in-memory fallback")
	return &noopCache{m: make(map[string]noopEntry), logger: log}
}

func (n *noopCache) Get(ctx context.Context, key string) ([]byte, error) {
	n.mu.RLock()
	e, ok := n.m[key]
	n.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return e.data, nil
}

func (n *noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := encodeValue(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	n.mu.Lock()
	n.m[key] = noopEntry{data: data, expiresAt: time.Now().Add(ttl)}
	n.mu.Unlock()
	return nil
}

func (n *noopCache) Delete(ctx context.Context, key string) error {
	n.mu.Lock()
	delete(n.m, key)
	n.mu.Unlock()
	return nil
}
