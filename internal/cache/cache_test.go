package cache

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crednova/credit-engine/internal/monitoring"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("key", []byte("value"))

	data, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte("value"), data)

	_, found = c.Get("missing")
	assert.False(t, found)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(20 * time.Millisecond)

	c.Set("key", []byte("value"))
	time.Sleep(40 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestCacheClearAndSize(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	assert.Equal(t, 2, c.Size())

	c.Delete("a")
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCacheStats(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_items"])
	assert.Equal(t, 60.0, stats["ttl_seconds"])
}

func TestCacheMiddlewareServesRepeatRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()

	handlerCalls := 0
	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.POST("/score", func(ctx *gin.Context) {
		handlerCalls++
		ctx.JSON(http.StatusOK, gin.H{"score": 720})
	})

	body := []byte(`{"entity_id":"cust-1","persona_or_segment":"salaried_prime"}`)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest("POST", "/score", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest("POST", "/score", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, 1, handlerCalls, "second identical request must be served from cache")
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestCacheMiddlewareIgnoresOtherPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()

	handlerCalls := 0
	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.GET("/personas", func(ctx *gin.Context) {
		handlerCalls++
		ctx.JSON(http.StatusOK, gin.H{})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/personas", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2, handlerCalls)
	assert.Equal(t, 0, c.Size())
}
