package middlewares

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/db"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/metrics"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/ratelimit"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/models"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("middleware-secret")
}

var quiet = log.New(io.Discard)

func serve(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareSetsUserID(t *testing.T) {
	token, err := utils.GenerateAdminToken("user-7", "u@example.com", "", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/x", AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	w := serve(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-7", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "garbage").Code)
}

func TestAuthMiddlewareAcceptsQueryToken(t *testing.T) {
	token, err := utils.GenerateAdminToken("user-8", "", "", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/x", AuthMiddleware(), func(c *gin.Context) { c.String(http.StatusOK, UserID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?token="+token, nil))
	assert.Equal(t, "user-8", w.Body.String())
}

type adminMap map[string]models.Admin

func (m adminMap) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	admin, ok := m[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &admin, nil
}

func TestAdminRBAC(t *testing.T) {
	enforcer, err := NewEnforcer()
	require.NoError(t, err)

	admins := adminMap{
		"root@example.com":   {Email: "root@example.com", Role: "admin"},
		"editor@example.com": {Email: "editor@example.com", Role: "editor"},
	}
	r := gin.New()
	r.GET("/x", AdminAuthMiddleware(admins, quiet), RBACMiddleware(enforcer, "questions", "write", quiet), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	adminToken, _ := utils.GenerateAdminToken("a1", "root@example.com", "admin", time.Hour)
	editorToken, _ := utils.GenerateAdminToken("a2", "editor@example.com", "editor", time.Hour)
	ghostToken, _ := utils.GenerateAdminToken("a3", "ghost@example.com", "admin", time.Hour)
	userToken, _ := utils.GenerateAdminToken("u1", "root@example.com", "", time.Hour)

	assert.Equal(t, http.StatusNoContent, serve(r, adminToken).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, editorToken).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, ghostToken).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, userToken).Code)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestRateLimitMiddleware(t *testing.T) {
	m := metrics.New(nil)
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Requests: 2, Window: time.Minute})

	r := gin.New()
	r.GET("/x", func(c *gin.Context) { c.Set(ContextUserID, "u1") }, RateLimitMiddleware(limiter, "chat", m, quiet), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "").Code)

	open := gin.New()
	open.GET("/x", RateLimitMiddleware(failingLimiter{}, "chat", nil, quiet), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(open, "").Code)
}
