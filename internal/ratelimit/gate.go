package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// maxSettleAttempts bounds how often TryAcquire restarts the check when the
// key expires between the conditional set and the TTL read.
const maxSettleAttempts = 3

// Result is the outcome of a gate check. RetryAfter is only meaningful when
// Allowed is false and is never negative.
type Result struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Gate is a time-windowed action guard keyed by caller-chosen subject keys.
// Two concurrent TryAcquire calls on the same fresh key cannot both be
// allowed because the claim rides on the store's conditional set.
type Gate struct {
	store KeyStore
}

func NewGate(store KeyStore) *Gate {
	return &Gate{store: store}
}

// TryAcquire claims key for window, or reports how long until it frees up.
// Denied is terminal; the gate never waits or retries on the caller's
// behalf.
func (g *Gate) TryAcquire(ctx context.Context, key string, window time.Duration) (Result, error) {
	// A key can expire between the conditional set and the TTL read; a few
	// extra rounds absorb that race.
	for attempt := 0; attempt < maxSettleAttempts; attempt++ {
		set, err := g.store.SetIfAbsent(ctx, key, "1", window)
		if err != nil {
			return Result{}, err
		}
		if set {
			return Result{Allowed: true}, nil
		}

		remaining, ok, err := g.store.RemainingTTL(ctx, key)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			continue
		}
		if remaining < 0 {
			remaining = 0
		}
		return Result{Allowed: false, RetryAfter: remaining}, nil
	}

	// The key kept vanishing between the set and the TTL read. A denial
	// here would have to carry a guessed wait, so fail the call instead and
	// let the caller retry.
	return Result{}, fmt.Errorf("claim for key %s did not settle after %d attempts", key, maxSettleAttempts)
}
