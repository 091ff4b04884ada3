package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"recipe-recommender/internal/infrastructure/config"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/", ok)
	r.POST("/", ok)
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 2})
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "clients are limited independently")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"))

	now = now.Add(visitorTTL + time.Second)
	rl.Allow("c")
	assert.NotContains(t, rl.visitors, "a")
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.5, Burst: 1})
	r := newEngine(rl.Middleware())

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", "").Code)
	w := do(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
}

func TestDeduplicator(t *testing.T) {
	d := NewDeduplicator(time.Second)
	now := time.Unix(1000, 0)
	d.now = func() time.Time { return now }
	r := newEngine(d.Middleware())

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/", `{"a":1}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/", `{"a":1}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/", `{"a":2}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", "").Code)

	now = now.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/", `{"a":1}`).Code)
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(4))
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(r, http.MethodPost, "/", "too long").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/", "ok").Code)

	t.Run("oversized chunked body is rejected before deduplication", func(t *testing.T) {
		r := newEngine(BodySizeLimit(4), NewDeduplicator(time.Second).Middleware())

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long"))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.JSONEq(t, `{"error":"Request body too large","code":"PAYLOAD_TOO_LARGE"}`, w.Body.String())
	})
}

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery())
	w := do(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error","code":"INTERNAL_ERROR"}`, w.Body.String())
}
