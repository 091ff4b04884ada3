package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-recommender/internal/pkg/common"
)

// defaultDedupWindow 未設定時的去重時間窗
const defaultDedupWindow = time.Second

// Deduplicator 拒絕同一用戶端在時間窗內送出的相同 POST 請求
type Deduplicator struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string]time.Time
	now      func() time.Time
}

// NewDeduplicator 創建請求去重器
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &Deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Seen 記錄指紋，若時間窗內已出現過則回傳 true
func (d *Deduplicator) Seen(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, t := range d.requests {
		if now.Sub(t) > d.window {
			delete(d.requests, k)
		}
	}
	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Middleware 請求去重中間件，只處理 POST
func (d *Deduplicator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || c.Request.Body == nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			common.LogWarn("Failed to read request body", zap.Error(err), zap.String("path", c.Request.URL.Path))
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.ErrorResponse{
					Error: "Request body too large",
					Code:  common.ErrCodeTooLarge,
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
				Error: "Failed to read request body",
				Code:  common.ErrCodeInvalidRequest,
			})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		hash := sha256.Sum256(body)
		fingerprint := c.ClientIP() + ":" + c.Request.URL.Path + ":" + hex.EncodeToString(hash[:])

		if d.Seen(fingerprint) {
			common.LogInfo("Duplicate request rejected",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Error: "Request too frequent",
				Code:  common.ErrCodeTooManyRequests,
			})
			return
		}
		c.Next()
	}
}
