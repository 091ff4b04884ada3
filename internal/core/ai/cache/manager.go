package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

// Store AI 回應快取，找不到時回傳 common.ErrCacheMiss
type Store interface {
	Get(ctx context.Context, prompt, imageData string) (string, error)
	Set(ctx context.Context, prompt, imageData, value string) error
	Close() error
}

// Key 以 prompt 與圖片內容的 SHA-256 產生快取鍵
func Key(prompt, imageData string) string {
	if imageData == "" {
		return "text:" + hashString(prompt)
	}
	return "multimodal:" + hashString(prompt) + ":" + hashString(imageData)
}

func hashString(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}

// Manager 記憶體快取，容量滿時先清除過期項目再淘汰最少使用者
type Manager struct {
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	store map[string]cacheEntry
	stats Stats

	stop chan struct{}
	once sync.Once
}

type cacheEntry struct {
	value       string
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// Stats 快取統計
type Stats struct {
	Size      int   `json:"size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// NewManager 創建記憶體快取並啟動定期清理
func NewManager(cfg config.CacheConfig) *Manager {
	m := &Manager{
		maxSize: cfg.MaxSize,
		ttl:     cfg.TTL,
		now:     time.Now,
		store:   make(map[string]cacheEntry),
		stop:    make(chan struct{}),
	}
	if cfg.CleanupInterval > 0 {
		go m.startCleanup(cfg.CleanupInterval)
	}

	common.LogInfo("快取管理員已初始化",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)
	return m
}

// Get 取得快取值
func (m *Manager) Get(_ context.Context, prompt, imageData string) (string, error) {
	key := Key(prompt, imageData)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.store[key]
	if !ok {
		m.stats.Misses++
		return "", common.ErrCacheMiss
	}
	now := m.now()
	if now.After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.Evictions++
		m.stats.Misses++
		return "", common.ErrCacheMiss
	}

	entry.lastAccess = now
	entry.accessCount++
	m.store[key] = entry
	m.stats.Hits++
	return entry.value, nil
}

// Set 寫入快取值
func (m *Manager) Set(_ context.Context, prompt, imageData, value string) error {
	key := Key(prompt, imageData)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.store[key]; !exists && len(m.store) >= m.maxSize {
		if m.cleanup() == 0 {
			m.evictLRU()
		}
	}

	now := m.now()
	m.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(m.ttl),
		lastAccess: now,
	}
	return nil
}

// startCleanup 定期清除過期項目，直到 Close
func (m *Manager) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			count := m.cleanup()
			m.mu.Unlock()
			if count > 0 {
				common.LogDebug("已清除過期快取", zap.Int("count", count))
			}
		case <-m.stop:
			return
		}
	}
}

// cleanup 清除過期項目，呼叫者需持有鎖
func (m *Manager) cleanup() int {
	now := m.now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
		}
	}
	m.stats.Evictions += int64(count)
	return count
}

// evictLRU 淘汰存取次數最少、最久未使用的項目，呼叫者需持有鎖
func (m *Manager) evictLRU() {
	var oldestKey string
	var oldest cacheEntry
	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < oldest.accessCount ||
			(entry.accessCount == oldest.accessCount && entry.lastAccess.Before(oldest.lastAccess)) {
			oldestKey = key
			oldest = entry
		}
	}
	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.Evictions++
	}
}

// Stats 回傳快取統計
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats
	s.Size = len(m.store)
	return s
}

// Close 停止清理並清空快取
func (m *Manager) Close() error {
	m.once.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]cacheEntry)
	common.LogInfo("快取管理員已關閉",
		zap.Int64("hits", m.stats.Hits),
		zap.Int64("misses", m.stats.Misses),
		zap.Int64("evictions", m.stats.Evictions),
	)
	return nil
}
