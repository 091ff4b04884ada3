package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	feedbackHandler "recipe-recommender/internal/api/handlers/feedback"
	"recipe-recommender/internal/api/handlers/health"
	recipeHandler "recipe-recommender/internal/api/handlers/recipe"
	"recipe-recommender/internal/api/handlers/recommendation"
	"recipe-recommender/internal/api/middleware"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

const (
	// JSON 請求體大小限制 (1MB)
	maxJSONBodySize = 1 << 20
	// multipart 表單額外預留的空間
	multipartOverhead = 1 << 20
)

// Handlers 路由使用的處理器
type Handlers struct {
	Health         *health.Handler
	Recipe         *recipeHandler.Handler
	Feedback       *feedbackHandler.Handler
	Recommendation *recommendation.Handler
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	router.GET("/health", h.Health.HealthCheck)
	router.GET("/health/ready", h.Health.ReadinessCheck)

	api := router.Group("/api")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	}
	dedup := middleware.NewDeduplicator(cfg.DedupWindow).Middleware()

	api.POST("/ingredients-from-image",
		middleware.BodySizeLimit(cfg.Image.MaxSizeBytes+multipartOverhead),
		h.Recipe.HandleIngredientsFromImage,
	)

	jsonAPI := api.Group("", middleware.BodySizeLimit(maxJSONBodySize))
	{
		jsonAPI.POST("/recipes-from-ingredients", dedup, h.Recipe.HandleRecipesFromIngredients)
		jsonAPI.POST("/recipes/match", dedup, h.Recipe.HandleMatch)
		jsonAPI.POST("/recipes", h.Recipe.HandleSaveRecipe)
		jsonAPI.GET("/recipes/:id", h.Recipe.HandleGetRecipe)

		jsonAPI.GET("/recommendations", h.Recommendation.HandleRecommendations)

		jsonAPI.POST("/feedback", h.Feedback.HandleSubmit)
		jsonAPI.GET("/feedback", h.Feedback.HandleList)
	}

	common.LogInfo("Router setup completed",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("environment", cfg.App.Env),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Duration("dedup_window", cfg.DedupWindow),
	)
	return router
}
