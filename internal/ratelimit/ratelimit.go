package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// CounterStore is the minimal counter surface the limiter needs.
// Kept small so tests can fake it easily.
type CounterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Limiter is an approximate sliding-window counter: one counter per
// key, expiry set from the first increment in the window. Races
// between concurrent increments are tolerated.
type Limiter struct {
	store CounterStore
	log   *slog.Logger
}

func NewLimiter(store CounterStore, log *slog.Logger) *Limiter {
	return &Limiter{
		store: store,
		log:   log,
	}
}

// Check increments the counter for key and reports whether the
// request is allowed. When the counter store is missing or
// unreachable the limiter fails open: availability wins over strict
// enforcement while the dependency is degraded.
func (l *Limiter) Check(ctx context.Context, key string, max int, window time.Duration) bool {
	if l.store == nil {
		return true
	}

	count, err := l.store.Incr(ctx, key)

	if err != nil {
		l.log.Warn("rate limit store unreachable, failing open", "key", key, "err", err)
		return true
	}

	if count == 1 {
		err = l.store.Expire(ctx, key, window)

		if err != nil {
			l.log.Warn("rate limit expire failed", "key", key, "err", err)
		}
	}

	return count <= int64(max)
}
