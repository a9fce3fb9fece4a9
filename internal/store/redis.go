package store

import (
	"context"
	"fmt"
	"time"

	"github.com/edtech-scanner/app-auth/internal/redisclient"
	"github.com/redis/go-redis/v9"
)

// Redis implements Store on top of the traced Redis client. Lazy expiry
// and atomic increments come from Redis itself.
type Redis struct {
	client *redisclient.Client
}

// NewRedis creates a Redis-backed store
func NewRedis(client *redisclient.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (s *Redis) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Redis) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := s.client.IncrEx(ctx, key, ttl)
	if err != nil {
		return 0, fmt.Errorf("redis increx %s: %w", key, err)
	}
	return count, nil
}

func (s *Redis) SetTTL(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("redis expire %s: %w", key, err)
	}
	return nil
}

func (s *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
