// Package settings reads per-user settings from the shared Redis store.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a setting key does not exist for the user.
var ErrNotFound = errors.New("setting not found")

// Store provides read access to user settings.
type Store interface {
	Get(ctx context.Context, userID, category, key string) (string, error)
}

// RedisStore reads settings written by the settings service under
// user:{id}:settings:{category}:{key}.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, userID, category, key string) (string, error) {
	val, err := s.client.Get(ctx, settingKey(userID, category, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s/%s: %w", category, key, err)
	}
	return val, nil
}

func settingKey(userID, category, key string) string {
	return fmt.Sprintf("user:%s:settings:%s:%s", userID, category, key)
}
