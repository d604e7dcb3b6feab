package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore backs the limiter with a shared Redis instance so the
// counters hold across multiple API processes.
type RedisStore struct {
	redisdb *redis.Client
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisStore{redisdb: redisdb}
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.redisdb.Incr(ctx, key).Result()
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.redisdb.Expire(ctx, key, ttl).Err()
}

// Ping checks redis connectivity at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.redisdb.Close()
}
