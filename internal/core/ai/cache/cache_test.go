package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

func newTestManager(maxSize int, ttl time.Duration) (*Manager, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(config.CacheConfig{MaxSize: maxSize, TTL: ttl})
	m.now = func() time.Time { return now }
	return m, &now
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("a", ""), Key("a", ""))
	assert.NotEqual(t, Key("a", ""), Key("a", "img"))
	assert.Contains(t, Key("a", ""), "text:")
	assert.Contains(t, Key("a", "img"), "multimodal:")
}

func TestManagerGetSet(t *testing.T) {
	ctx := context.Background()
	m, now := newTestManager(10, time.Minute)
	defer m.Close()

	_, err := m.Get(ctx, "prompt", "")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "prompt", "", "answer"))
	val, err := m.Get(ctx, "prompt", "")
	require.NoError(t, err)
	assert.Equal(t, "answer", val)

	_, err = m.Get(ctx, "prompt", "other-image")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	*now = now.Add(2 * time.Minute)
	_, err = m.Get(ctx, "prompt", "")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(3), stats.Misses)
	assert.Equal(t, 0, stats.Size)
}

func TestManagerEviction(t *testing.T) {
	ctx := context.Background()
	m, now := newTestManager(2, time.Minute)
	defer m.Close()

	require.NoError(t, m.Set(ctx, "a", "", "1"))
	*now = now.Add(time.Second)
	require.NoError(t, m.Set(ctx, "b", "", "2"))
	_, err := m.Get(ctx, "a", "")
	require.NoError(t, err)

	// b 從未被讀取，先被淘汰
	require.NoError(t, m.Set(ctx, "c", "", "3"))
	_, err = m.Get(ctx, "b", "")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	_, err = m.Get(ctx, "a", "")
	assert.NoError(t, err)
	assert.Equal(t, 2, m.Stats().Size)

	t.Run("expired entries go first", func(t *testing.T) {
		*now = now.Add(2 * time.Minute)
		require.NoError(t, m.Set(ctx, "d", "", "4"))
		assert.Equal(t, 1, m.Stats().Size)
	})
}

func TestRedisStoreUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewRedisStore(client, time.Minute)
	defer store.Close()

	_, err := store.Get(context.Background(), "prompt", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrCacheMiss)
	assert.Error(t, store.Set(context.Background(), "prompt", "", "v"))
}
