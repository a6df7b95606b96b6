package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "quote:draft:"

// RedisStorage keeps one session's document under quote:draft:<sessionID>.
// Every save refreshes the TTL, so an abandoned draft eventually expires.
type RedisStorage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, sessionID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		key:    RedisKey(sessionID),
		ttl:    ttl,
	}
}

func RedisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func (r *RedisStorage) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft from redis: %w", err)
	}
	return data, nil
}

func (r *RedisStorage) Save(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store draft in redis: %w", err)
	}
	return nil
}

// Exists reports whether a document is stored for sessionID.
func Exists(ctx context.Context, client *redis.Client, sessionID string) (bool, error) {
	n, err := client.Exists(ctx, RedisKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check draft in redis: %w", err)
	}
	return n > 0, nil
}
