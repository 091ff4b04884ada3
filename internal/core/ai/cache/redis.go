package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

const redisKeyPrefix = "ai:response:"

// RedisStore 以 Redis 儲存 AI 回應，多個實例可共用
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient 依設定建立 Redis 連線並確認可用
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisStore 創建 Redis 快取
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get 取得快取值
func (s *RedisStore) Get(ctx context.Context, prompt, imageData string) (string, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+Key(prompt, imageData)).Result()
	if errors.Is(err, redis.Nil) {
		return "", common.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return val, nil
}

// Set 寫入快取值
func (s *RedisStore) Set(ctx context.Context, prompt, imageData, value string) error {
	if err := s.client.Set(ctx, redisKeyPrefix+Key(prompt, imageData), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
