package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKey     = "naai:session:token"
	defaultTimeout = 5 * time.Second
)

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStore keeps the token under a single well-known key. Useful for
// shared dev environments where the session should survive across machines.
// The CredentialStore contract is synchronous, so each operation applies
// its own timeout.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore wraps an established Redis client. An empty key selects the
// default.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = defaultKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(token string) error {
	ctx, cancel := opContext()
	defer cancel()
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis save token: %w", err)
	}
	return nil
}

func (s *RedisStore) Load() (string, bool, error) {
	ctx, cancel := opContext()
	defer cancel()
	token, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis load token: %w", err)
	}
	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

func (s *RedisStore) Clear() error {
	ctx, cancel := opContext()
	defer cancel()
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis clear token: %w", err)
	}
	return nil
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), defaultTimeout)
}
