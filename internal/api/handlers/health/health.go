package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-recommender/internal/pkg/common"
)

// readyTimeout 就緒檢查的資料庫 ping 逾時
const readyTimeout = 2 * time.Second

// Pinger 可檢查連線狀態的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	AIEnabled bool                   `json:"aiEnabled"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理器
type Handler struct {
	version   string
	aiEnabled bool
	db        Pinger
}

// NewHandler 創建健康檢查處理器
func NewHandler(version string, aiEnabled bool, db Pinger) *Handler {
	return &Handler{version: version, aiEnabled: aiEnabled, db: db}
}

// HealthCheck 回傳服務狀態與執行期資訊
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		AIEnabled: h.aiEnabled,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":  m.Alloc,
				"sys":    m.Sys,
				"num_gc": m.NumGC,
			},
		},
	})
}

// ReadinessCheck 檢查資料庫連線
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			common.LogError("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unavailable",
				"database": "down",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"database": "up",
	})
}
