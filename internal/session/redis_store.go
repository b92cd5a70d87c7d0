package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edcenter/console-api/pkg/config"
	appErrors "github.com/edcenter/console-api/pkg/errors"
)

const keyPrefix = "console:session:"

// RedisStore keeps session tokens in Redis with a TTL matching the session.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects and pings Redis.
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

// Save stores the upstream token under the session id.
func (s *RedisStore) Save(ctx context.Context, sessionID, upstreamToken string, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+sessionID, upstreamToken, ttl).Err()
}

// Get returns the upstream token, or ErrCacheMiss for unknown sessions.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (string, error) {
	value, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", appErrors.ErrCacheMiss
		}
		return "", err
	}
	return value, nil
}

// Delete removes the session mapping.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, keyPrefix+sessionID).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
