package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 75*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouter.BaseURL)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, int64(5*1024*1024), cfg.Image.MaxSizeBytes)
	assert.Equal(t, 10, cfg.Recommendation.DefaultLimit)
	assert.Equal(t, 50, cfg.Recommendation.MaxLimit)
	assert.Equal(t, time.Second, cfg.DedupWindow)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OPENROUTER_API_KEY", "sk-test-key")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/recipes")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RECOMMENDATION_MAX_LIMIT", "20")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.OpenRouter.Enabled())
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@db/recipes", cfg.Database.DSN)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 20, cfg.Recommendation.MaxLimit)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "70000"}},
		{"unknown cache backend", map[string]string{"CACHE_BACKEND": "memcached"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"empty dsn", map[string]string{"DATABASE_URL": " "}},
		{"zero rate", map[string]string{"RATE_LIMIT_RPS": "0"}},
		{"limits inverted", map[string]string{"RECOMMENDATION_DEFAULT_LIMIT": "60"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestOpenRouterDisabledWithoutKey(t *testing.T) {
	assert.False(t, OpenRouterConfig{}.Enabled())
}
