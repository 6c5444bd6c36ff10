package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/auth"
	"github.com/beautyai/beautyai-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type userStore map[string]*models.User

func (s userStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newAuthEngine(t *testing.T) (*gin.Engine, *auth.TokenManager) {
	t.Helper()

	tokens := auth.NewTokenManager("secret", time.Hour)
	svc := auth.NewService(userStore{
		"anna@example.com":  {ID: 1, Email: "anna@example.com", Role: models.RoleAdmin, IsActive: true},
		"ghost@example.com": {ID: 2, Email: "ghost@example.com", Role: models.RoleClient},
		"super@example.com": {ID: 3, Email: "super@example.com", Role: models.RoleSuperadmin, IsActive: true},
	}, tokens)

	r := gin.New()
	r.Use(AuthMiddleware(svc))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID})
	})
	r.GET("/admin", RequireSuperadmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, tokens
}

func bearer(t *testing.T, tokens *auth.TokenManager, email string) string {
	t.Helper()
	tok, _, err := tokens.Issue(email)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(r http.Handler, method, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r, tokens := newAuthEngine(t)

	w := do(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = do(r, http.MethodGet, "/me", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", bearer(t, tokens, "nobody@example.com"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", bearer(t, tokens, "ghost@example.com"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "inactive_account")

	w = do(r, http.MethodGet, "/me", bearer(t, tokens, "anna@example.com"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}

func TestRequireSuperadmin(t *testing.T) {
	r, tokens := newAuthEngine(t)

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin", bearer(t, tokens, "anna@example.com")).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/admin", bearer(t, tokens, "super@example.com")).Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://app.test"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://app.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func newLimitedEngine(l *LoginLimiter, status *int) *gin.Engine {
	r := gin.New()
	r.POST("/token", l.Middleware(), func(c *gin.Context) {
		c.Status(*status)
	})
	return r
}

func TestLoginLimiter_BlocksAfterMax(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})

	status := http.StatusUnauthorized
	r := newLimitedEngine(NewLoginLimiter(rdb, 2, time.Minute, zap.NewNop()), &status)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/token", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/token", "").Code)

	w := do(r, http.MethodPost, "/token", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "too_many_login_attempts")

	s.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/token", "").Code)
}

func TestLoginLimiter_SuccessResets(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})

	status := http.StatusUnauthorized
	r := newLimitedEngine(NewLoginLimiter(rdb, 2, time.Minute, zap.NewNop()), &status)

	do(r, http.MethodPost, "/token", "")
	status = http.StatusOK
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/token", "").Code)
	assert.False(t, s.Exists("login_attempts:192.0.2.1"))
}

func TestLoginLimiter_FailsOpen(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	s.Close()

	status := http.StatusUnauthorized
	r := newLimitedEngine(NewLoginLimiter(rdb, 1, time.Minute, zap.NewNop()), &status)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/token", "").Code)
	}

	disabled := newLimitedEngine(NewLoginLimiter(nil, 1, time.Minute, zap.NewNop()), &status)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusUnauthorized, do(disabled, http.MethodPost, "/token", "").Code)
	}
}
