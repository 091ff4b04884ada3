package feedback

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	feedbackService "recipe-recommender/internal/core/feedback"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/storage"
)

// Service 回饋的寫入與查詢
type Service interface {
	Submit(ctx context.Context, req *feedbackService.SubmitRequest) (*feedbackService.SubmitResult, error)
	List(ctx context.Context, userID, recipeID string) ([]storage.Feedback, error)
}

// Handler 回饋處理器
type Handler struct {
	service Service
}

// NewHandler 創建回饋處理器
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// HandleSubmit POST /feedback，新增回 201，更新回 200
func (h *Handler) HandleSubmit(c *gin.Context) {
	var req feedbackService.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	result, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"success":  true,
		"message":  result.Message,
		"feedback": result.Feedback,
		"created":  result.Created,
	})
}

// HandleList GET /feedback?userId&recipeId
func (h *Handler) HandleList(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		common.RespondError(c, common.NewFieldError("userId", "userId is required"))
		return
	}

	items, err := h.service.List(c.Request.Context(), userID, c.Query("recipeId"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "feedback": items})
}
