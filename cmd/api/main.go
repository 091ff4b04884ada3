package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"recipe-recommender/internal/api"
	feedbackHandler "recipe-recommender/internal/api/handlers/feedback"
	"recipe-recommender/internal/api/handlers/health"
	recipeHandler "recipe-recommender/internal/api/handlers/recipe"
	"recipe-recommender/internal/api/handlers/recommendation"
	"recipe-recommender/internal/core/ai/cache"
	"recipe-recommender/internal/core/ai/openrouter"
	"recipe-recommender/internal/core/ai/provider"
	aiService "recipe-recommender/internal/core/ai/service"
	"recipe-recommender/internal/core/feedback"
	"recipe-recommender/internal/core/image"
	"recipe-recommender/internal/core/matching"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/storage"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(common.LogOptions{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: cfg.Log.Console,
		Service: cfg.App.Name,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.Bool("ai_enabled", cfg.OpenRouter.Enabled()),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	store, err := storage.Open(cfg.Database)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()

	var aiProvider provider.Provider
	if cfg.OpenRouter.Enabled() {
		aiProvider = openrouter.NewClient(cfg.OpenRouter)
	} else {
		common.LogWarn("未設定 OPENROUTER_API_KEY，AI 生成將使用備援食譜")
	}
	ai := aiService.NewService(aiProvider, newCacheStore(cfg), cfg.OpenRouter.Timeout)
	defer ai.Close()

	catalog, err := recipe.LoadCatalog()
	if err != nil {
		common.LogFatal("Failed to load sample catalog", zap.Error(err))
	}

	// AI 未設定時 Completer 仍回傳 ErrAIDisabled，由各服務走備援流程
	generator := recipe.NewGenerationService(ai)
	matcher := recipe.NewMatchService(generator, catalog, matching.NewEngine(matching.DefaultTables()))
	detector := recipe.NewDetectionService(ai)

	router := api.SetupRouter(cfg, api.Handlers{
		Health:         health.NewHandler(cfg.App.Version, ai.Enabled(), store),
		Recipe:         recipeHandler.NewHandler(generator, matcher, detector, image.NewService(cfg.Image.MaxSizeBytes), store, catalog),
		Feedback:       feedbackHandler.NewHandler(feedback.NewService(store)),
		Recommendation: recommendation.NewHandler(recommend.NewService(store, catalog, cfg.Recommendation)),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

// newCacheStore 依設定選擇快取後端；Redis 連不上時退回記憶體快取
func newCacheStore(cfg *config.Config) cache.Store {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Backend == config.CacheBackendRedis {
		client, err := cache.NewRedisClient(context.Background(), cfg.Redis)
		if err == nil {
			common.LogInfo("使用 Redis 快取", zap.String("addr", cfg.Redis.Addr()))
			return cache.NewRedisStore(client, cfg.Cache.TTL)
		}
		common.LogWarn("Redis 無法連線，改用記憶體快取", zap.Error(err))
	}
	return cache.NewManager(cfg.Cache)
}
