package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"fleetdesk-api-server/internal/ratelimit"
)

func limitedRouter(limiter *ratelimit.Limiter, max int) *gin.Engine {
	router := gin.New()
	router.POST("/login",
		RateLimit(limiter, "login", 15*time.Minute, max),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})
	return router
}

func TestRateLimitAllowsThenBlocks(t *testing.T) {
	limiter := ratelimit.New()
	router := limitedRouter(limiter, 3)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitSetsHeaders(t *testing.T) {
	limiter := ratelimit.New()
	router := limitedRouter(limiter, 10)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimitActionsAreSeparate(t *testing.T) {
	limiter := ratelimit.New()
	router := gin.New()
	router.POST("/login",
		RateLimit(limiter, "login", 15*time.Minute, 1),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/register",
		RateLimit(limiter, "register", 15*time.Minute, 1),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// The same client is still fresh for a different action.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
