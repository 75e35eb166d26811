package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowsUpToLimitThenRejects(t *testing.T) {
	l := New(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		allowed, retryAfter := l.Check("key:a", now)
		require.True(t, allowed)
		assert.Zero(t, retryAfter)
	}

	allowed, retryAfter := l.Check("key:a", now)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, retryAfter)
}

func TestLimiter_WindowSlidesOutOldHits(t *testing.T) {
	l := New(1, time.Second)
	start := time.Now()

	allowed, _ := l.Check("key:a", start)
	require.True(t, allowed)

	allowed, _ = l.Check("key:a", start.Add(500*time.Millisecond))
	assert.False(t, allowed)

	allowed, _ = l.Check("key:a", start.Add(1500*time.Millisecond))
	assert.True(t, allowed)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)
	now := time.Now()

	allowedA, _ := l.Check("key:a", now)
	allowedB, _ := l.Check("key:b", now)
	assert.True(t, allowedA)
	assert.True(t, allowedB)
}

func TestLimiter_Evict_RemovesExpiredEmptyBuckets(t *testing.T) {
	l := New(1, time.Second)
	now := time.Now()
	l.Check("key:a", now)

	l.Evict(now.Add(2 * time.Second))

	l.mu.Lock()
	_, exists := l.buckets["key:a"]
	l.mu.Unlock()
	assert.False(t, exists)
}

func TestClientKey_PrefersAPIKeyHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "test-key-1")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	assert.Equal(t, "key:test-key-1", ClientKey("X-API-Key", c))
}

func TestClientKey_FallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.5:54321"
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	assert.Equal(t, "ip:203.0.113.5", ClientKey("X-API-Key", c))
}

func TestMiddleware_RejectsFourthRequestWithRetryAfterHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := New(3, time.Minute)
	r := gin.New()
	r.Use(Middleware(l, "X-API-Key"))
	r.POST("/orders", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	var last *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set("X-API-Key", "test-key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		last = w
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "60", last.Header().Get("Retry-After"))
}
