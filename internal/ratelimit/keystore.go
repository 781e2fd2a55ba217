package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// KeyStore is the expiring key capability the gate runs on. SetIfAbsent is
// the atomic conditional-set-with-expiry primitive; RemainingTTL reports
// how long an existing key has left (ok=false when the key is absent).
type KeyStore interface {
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	RemainingTTL(ctx context.Context, key string) (time.Duration, bool, error)
}

// RedisKeyStore backs the gate with Redis SETNX + TTL.
type RedisKeyStore struct {
	rdb *redis.Client
}

func NewRedisKeyStore(rdb *redis.Client) *RedisKeyStore {
	return &RedisKeyStore{rdb: rdb}
}

func (s *RedisKeyStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	set, err := s.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return set, nil
}

func (s *RedisKeyStore) RemainingTTL(ctx context.Context, key string) (time.Duration, bool, error) {
	ttl, err := s.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read ttl of key %s: %w", key, err)
	}
	// -2 means no key, -1 means no expiry; the gate always sets an expiry,
	// so both read as absent
	if ttl < 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryKeyStore is a mutex-guarded in-process KeyStore. Used in tests and
// as a single-node fallback; the injected clock keeps expiry deterministic.
type MemoryKeyStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   clockwork.Clock
}

func NewMemoryKeyStore(clock clockwork.Clock) *MemoryKeyStore {
	return &MemoryKeyStore{
		entries: make(map[string]memoryEntry),
		clock:   clock,
	}
}

func (s *MemoryKeyStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if e, ok := s.entries[key]; ok && e.expiresAt.After(now) {
		return false, nil
	}
	s.entries[key] = memoryEntry{value: value, expiresAt: now.Add(ttl)}
	return true, nil
}

func (s *MemoryKeyStore) RemainingTTL(ctx context.Context, key string) (time.Duration, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return 0, false, nil
	}
	remaining := e.expiresAt.Sub(s.clock.Now())
	if remaining <= 0 {
		delete(s.entries, key)
		return 0, false, nil
	}
	return remaining, true, nil
}
