package recommendation

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/pkg/common"
)

// Service 個人化推薦
type Service interface {
	ClampLimit(limit int) int
	Recommend(ctx context.Context, userID string, limit int) (*recommend.Result, error)
}

// Handler 推薦處理器
type Handler struct {
	service Service
}

// NewHandler 創建推薦處理器
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// HandleRecommendations GET /recommendations?userId&limit
func (h *Handler) HandleRecommendations(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		common.RespondError(c, common.NewFieldError("userId", "userId is required"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			common.RespondError(c, common.NewFieldError("limit", "limit must be an integer"))
			return
		}
		limit = n
	}

	result, err := h.service.Recommend(c.Request.Context(), userID, h.service.ClampLimit(limit))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
