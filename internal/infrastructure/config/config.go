package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App            AppConfig            `mapstructure:"app"`
	Server         ServerConfig         `mapstructure:"server"`
	OpenRouter     OpenRouterConfig     `mapstructure:"openrouter"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Database       DatabaseConfig       `mapstructure:"database"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	Image          ImageConfig          `mapstructure:"image"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Log            LogConfig            `mapstructure:"log"`
	DedupWindow    time.Duration        `mapstructure:"dedup_window"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	VisionModel string        `mapstructure:"vision_model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Enabled 未設定 API Key 時 AI 功能停用
func (c OpenRouterConfig) Enabled() bool {
	return c.APIKey != ""
}

// 快取後端
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// CacheConfig AI 回應快取配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr 回傳 host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// 資料庫驅動
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig 資料庫設定
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RateLimitConfig 速率限制配置（每個用戶端）
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

// RecommendationConfig 個人化推薦設定
type RecommendationConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// envBindings 設定鍵與環境變數的對應
var envBindings = map[string]string{
	"app.env":                        "APP_ENV",
	"app.debug":                      "APP_DEBUG",
	"server.port":                    "PORT",
	"server.request_timeout":         "REQUEST_TIMEOUT",
	"openrouter.api_key":             "OPENROUTER_API_KEY",
	"openrouter.base_url":            "OPENROUTER_BASE_URL",
	"openrouter.model":               "OPENROUTER_MODEL",
	"openrouter.vision_model":        "OPENROUTER_VISION_MODEL",
	"openrouter.max_tokens":          "MODEL_MAX_TOKENS",
	"openrouter.timeout":             "OPENROUTER_TIMEOUT",
	"cache.enabled":                  "CACHE_ENABLED",
	"cache.backend":                  "CACHE_BACKEND",
	"cache.ttl":                      "CACHE_TTL",
	"redis.host":                     "REDIS_HOST",
	"redis.port":                     "REDIS_PORT",
	"redis.password":                 "REDIS_PASSWORD",
	"redis.db":                       "REDIS_DB",
	"database.driver":                "DB_DRIVER",
	"database.dsn":                   "DATABASE_URL",
	"database.log_level":             "DB_LOG_LEVEL",
	"database.auto_migrate":          "DB_AUTO_MIGRATE",
	"rate_limit.enabled":             "RATE_LIMIT_ENABLED",
	"rate_limit.requests_per_second": "RATE_LIMIT_RPS",
	"rate_limit.burst":               "RATE_LIMIT_BURST",
	"recommendation.default_limit":   "RECOMMENDATION_DEFAULT_LIMIT",
	"recommendation.max_limit":       "RECOMMENDATION_MAX_LIMIT",
	"log.level":                      "LOG_LEVEL",
	"log.file":                       "LOG_FILE",
	"log.console":                    "LOG_CONSOLE",
	"dedup_window":                   "DEDUP_WINDOW",
}

// LoadConfig 載入設定：.env（可選）→ 環境變數 → 預設值
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-recommender")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "75s")
	v.SetDefault("server.shutdown_timeout", "5s")

	// OpenRouter 設定
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "google/gemini-flash-1.5")
	v.SetDefault("openrouter.vision_model", "google/gemini-flash-1.5")
	v.SetDefault("openrouter.max_tokens", 4000)
	v.SetDefault("openrouter.temperature", 0.7)
	v.SetDefault("openrouter.timeout", "60s")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Redis 設定
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// 資料庫設定
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "recipes.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 5)
	v.SetDefault("rate_limit.burst", 20)

	// 圖片設定
	v.SetDefault("image.max_size_bytes", 5*1024*1024) // 5MB

	// 推薦設定
	v.SetDefault("recommendation.default_limit", 10)
	v.SetDefault("recommendation.max_limit", 50)

	// 日誌設定
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)

	v.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}
	if config.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout")
	}
	if config.OpenRouter.Timeout <= 0 {
		return fmt.Errorf("invalid openrouter timeout")
	}

	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case CacheBackendMemory, CacheBackendRedis:
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	switch config.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", config.Database.Driver)
	}
	if strings.TrimSpace(config.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}

	if config.RateLimit.Enabled && (config.RateLimit.RequestsPerSecond <= 0 || config.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate limit settings")
	}
	if config.Image.MaxSizeBytes <= 0 {
		return fmt.Errorf("invalid image max size")
	}
	if config.Recommendation.DefaultLimit <= 0 || config.Recommendation.MaxLimit < config.Recommendation.DefaultLimit {
		return fmt.Errorf("invalid recommendation limits")
	}

	return nil
}
