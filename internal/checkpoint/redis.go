package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps the resume index in a redis key, for setups where
// the run moves between hosts and a local file would be lost. It is
// still a single-writer checkpoint, not a coordination mechanism.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisStore connects to addr and verifies it is reachable.
func NewRedisStore(ctx context.Context, addr, key string, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedisStoreWithClient(client, key, logger), nil
}

// NewRedisStoreWithClient wraps an existing client, primarily for tests.
func NewRedisStoreWithClient(client *redis.Client, key string, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, key: key, logger: logger}
}

// Load reads the resume index. A missing key means 0; a corrupt value
// means 0 with a warning, mirroring the file store.
func (s *RedisStore) Load(ctx context.Context) (int, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get checkpoint key %s: %w", s.key, err)
	}
	index, err := strconv.Atoi(val)
	if err != nil || index < 0 {
		s.logger.Warn("Invalid checkpoint value, starting from beginning",
			zap.String("key", s.key), zap.String("value", val))
		return 0, nil
	}
	return index, nil
}

// Save overwrites the resume index.
func (s *RedisStore) Save(ctx context.Context, index int) error {
	if err := s.client.Set(ctx, s.key, strconv.Itoa(index), 0).Err(); err != nil {
		return fmt.Errorf("set checkpoint key %s: %w", s.key, err)
	}
	return nil
}

// Clear deletes the resume index key.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("delete checkpoint key %s: %w", s.key, err)
	}
	return nil
}

// Close releases the underlying redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
