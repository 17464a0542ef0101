package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"fleetdesk-api-server/config"
	"fleetdesk-api-server/internal/email"
	"fleetdesk-api-server/internal/ratelimit"
	"fleetdesk-api-server/internal/socket"
)

// newTestRouter builds the full route tree with a fresh limiter. The
// rate-limit middleware runs before any handler touches the database,
// so empty-body requests exercise the quota without a live Mongo.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(config.Config{}, nil, ratelimit.New(),
		email.NewSender(config.EmailConfig{}), socket.NewHub(), nil)
}

func post(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestResetEndpointsHaveSeparateQuotas(t *testing.T) {
	router := newTestRouter()

	for i := 0; i < 5; i++ {
		w := post(router, "/api/v1/auth/forgot-password")
		assert.NotEqual(t, http.StatusTooManyRequests, w.Code, "forgot-password request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, post(router, "/api/v1/auth/forgot-password").Code)

	// Draining forgot-password must leave reset-password untouched.
	for i := 0; i < 5; i++ {
		w := post(router, "/api/v1/auth/reset-password")
		assert.NotEqual(t, http.StatusTooManyRequests, w.Code, "reset-password request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, post(router, "/api/v1/auth/reset-password").Code)
}

func TestAuthEndpointQuotas(t *testing.T) {
	tests := []struct {
		name string
		path string
		max  int
	}{
		{"login", "/api/v1/auth/login", 10},
		{"register", "/api/v1/auth/register", 5},
		{"verify email", "/api/v1/auth/verify-email", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter()
			for i := 0; i < tt.max; i++ {
				w := post(router, tt.path)
				assert.NotEqual(t, http.StatusTooManyRequests, w.Code, "request %d", i+1)
			}
			assert.Equal(t, http.StatusTooManyRequests, post(router, tt.path).Code)
		})
	}
}
