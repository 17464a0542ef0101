package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-api-server/internal/auth"
	"fleetdesk-api-server/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	auth.JwtSecret = []byte("test-secret")
}

func protectedRouter(roles ...string) *gin.Engine {
	router := gin.New()
	group := router.Group("/", Authenticate())
	if len(roles) > 0 {
		group.Use(Authorize(roles...))
	}
	group.GET("/resource", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString(CtxUserID),
			"actor":  Actor(c),
		})
	})
	return router
}

func bearerFor(t *testing.T, name, role string) string {
	t.Helper()
	token, err := auth.GenerateJWT("64f000000000000000000001", "ops@example.com", name, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthenticateMissingHeader(t *testing.T) {
	router := protectedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	router := protectedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Token abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateBadToken(t *testing.T) {
	router := protectedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateValidToken(t *testing.T) {
	router := protectedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", bearerFor(t, "Dana Ops", models.RoleDispatcher))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dana Ops")
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		allowed  []string
		role     string
		wantCode int
	}{
		{"admin allowed", []string{models.RoleAdmin}, models.RoleAdmin, http.StatusOK},
		{"dispatcher blocked from admin route", []string{models.RoleAdmin}, models.RoleDispatcher, http.StatusForbidden},
		{"manager in multi-role list", []string{models.RoleAdmin, models.RoleManager}, models.RoleManager, http.StatusOK},
		{"dispatcher blocked from delete", []string{models.RoleAdmin, models.RoleManager}, models.RoleDispatcher, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := protectedRouter(tt.allowed...)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/resource", nil)
			req.Header.Set("Authorization", bearerFor(t, "Test User", tt.role))
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestActorFallsBackToSystem(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "system", Actor(c))

	c.Set(CtxUserName, "Dana Ops")
	assert.Equal(t, "Dana Ops", Actor(c))
}
