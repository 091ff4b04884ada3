package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

// visitorTTL 閒置多久後移除用戶端的限流器
const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 以用戶端 IP 為單位的令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter 創建限流器
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
		now:      time.Now,
	}
}

// Allow 檢查用戶端是否還有可用令牌
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[client]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[client] = v
	}
	v.lastSeen = now
	rl.evict(now)
	return v.limiter.AllowN(now, 1)
}

// evict 移除閒置的用戶端，呼叫者須持有鎖
func (rl *RateLimiter) evict(now time.Time) {
	for client, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, client)
		}
	}
}

// Middleware 超過限制時回傳 429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	retryAfter := 1
	if rl.limit > 0 {
		retryAfter = int(math.Ceil(1 / float64(rl.limit)))
	}

	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Error: common.ErrTooManyRequests.Message,
				Code:  common.ErrCodeTooManyRequests,
			})
			return
		}
		c.Next()
	}
}
