package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"quoteforge/config"
)

var (
	// DraftCacheClient stores wizard drafts, one key per session.
	DraftCacheClient *redis.Client
)

// InitDraftCache connects the draft client using REDIS_DRAFT_DB. The client
// is kept even when the ping fails so the caller can decide how to degrade.
func InitDraftCache() error {
	DraftCacheClient = newRedisClient(config.AppConfig.RedisDraftDB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := DraftCacheClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis (Drafts): %w", err)
	}
	return nil
}

// GetDraftCacheClient returns the draft client, connecting on first use.
func GetDraftCacheClient() *redis.Client {
	if DraftCacheClient == nil {
		if err := InitDraftCache(); err != nil {
			GetLogger().Sugar().Warn(err)
		}
	}
	return DraftCacheClient
}

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}
