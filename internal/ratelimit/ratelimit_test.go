package ratelimit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jobdeck/jobdeck/internal/ratelimit"
)

type fakeStore struct {
	incrFn   func(ctx context.Context, key string) (int64, error)
	expireFn func(ctx context.Context, key string, ttl time.Duration) error

	expireCalls []string
}

func (f *fakeStore) Incr(ctx context.Context, key string) (int64, error) {
	return f.incrFn(ctx, key)
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	f.expireCalls = append(f.expireCalls, key)

	if f.expireFn != nil {
		return f.expireFn(ctx, key, ttl)
	}

	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckAllowsUpToMax(t *testing.T) {
	var count int64

	store := &fakeStore{
		incrFn: func(ctx context.Context, key string) (int64, error) {
			count++
			return count, nil
		},
	}

	limiter := ratelimit.NewLimiter(store, discardLogger())

	for i := 0; i < 5; i++ {
		if !limiter.Check(context.Background(), "rate_limit:login:1.2.3.4", 5, time.Minute) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if limiter.Check(context.Background(), "rate_limit:login:1.2.3.4", 5, time.Minute) {
		t.Fatal("request 6 should be rejected")
	}
}

func TestCheckSetsExpiryOnFirstHitOnly(t *testing.T) {
	var count int64

	store := &fakeStore{
		incrFn: func(ctx context.Context, key string) (int64, error) {
			count++
			return count, nil
		},
	}

	limiter := ratelimit.NewLimiter(store, discardLogger())

	limiter.Check(context.Background(), "rate_limit:register:1.2.3.4", 3, 5*time.Minute)
	limiter.Check(context.Background(), "rate_limit:register:1.2.3.4", 3, 5*time.Minute)

	if got := len(store.expireCalls); got != 1 {
		t.Fatalf("expected 1 expire call, got %d", got)
	}

	if store.expireCalls[0] != "rate_limit:register:1.2.3.4" {
		t.Fatalf("expire called with wrong key %q", store.expireCalls[0])
	}
}

func TestCheckFailsOpen(t *testing.T) {
	store := &fakeStore{
		incrFn: func(ctx context.Context, key string) (int64, error) {
			return 0, errors.New("connection refused")
		},
	}

	limiter := ratelimit.NewLimiter(store, discardLogger())

	if !limiter.Check(context.Background(), "rate_limit:login:1.2.3.4", 5, time.Minute) {
		t.Fatal("limiter must allow requests when the store is unreachable")
	}
}

func TestCheckNilStoreAllows(t *testing.T) {
	limiter := ratelimit.NewLimiter(nil, discardLogger())

	if !limiter.Check(context.Background(), "rate_limit:login:1.2.3.4", 1, time.Minute) {
		t.Fatal("limiter must allow requests when no store is configured")
	}
}

func TestCheckExpireErrorDoesNotBlock(t *testing.T) {
	var count int64

	store := &fakeStore{
		incrFn: func(ctx context.Context, key string) (int64, error) {
			count++
			return count, nil
		},
		expireFn: func(ctx context.Context, key string, ttl time.Duration) error {
			return errors.New("connection reset")
		},
	}

	limiter := ratelimit.NewLimiter(store, discardLogger())

	if !limiter.Check(context.Background(), "rate_limit:login:1.2.3.4", 5, time.Minute) {
		t.Fatal("a failed expire must not reject the request")
	}
}
