package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/newspoll/api/internal/core/ports"
)

const (
	pathKeyPrefix = "page:"
	tagKeyPrefix  = "tag:"
)

// Store backs both cache ports with one redis client. Data entries are
// written with no expiration; membership sets under tag:{tag} track which
// keys each tag owns so InvalidateTag can drop them all in one round trip.
type Store struct {
	client *redis.Client
}

var (
	_ ports.TaggedCache      = (*Store)(nil)
	_ ports.CacheInvalidator = (*Store)(nil)
)

func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

func (s *Store) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) SetTagged(ctx context.Context, key string, value interface{}, tags ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagKeyPrefix+tag, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

func (s *Store) InvalidatePath(ctx context.Context, path string) error {
	if err := s.client.Del(ctx, pathKeyPrefix+path).Err(); err != nil {
		return fmt.Errorf("failed to invalidate path %s: %w", path, err)
	}
	return nil
}

func (s *Store) InvalidateTag(ctx context.Context, tag string) error {
	setKey := tagKeyPrefix + tag

	keys, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list keys for tag %s: %w", tag, err)
	}

	pipe := s.client.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, setKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate tag %s: %w", tag, err)
	}
	return nil
}
