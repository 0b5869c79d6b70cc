package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-middleware-test"

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return r[jti], nil
}

func newRouter(revoked RevocationChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := gin.New()
	auth := r.Group("/", AuthMiddleware(cfg, revoked))
	auth.GET("/me", func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).Username)
	})
	auth.GET("/admin", RoleMiddleware(model.Admin), func(c *gin.Context) {
		util.Success(c, nil)
	})
	return r
}

func token(t *testing.T, role model.UserRole) (string, *util.Claims) {
	t.Helper()
	user := &model.User{Username: "ayse", Role: role}
	user.ID = 7
	s, err := util.GenerateJWT(user, testSecret, time.Hour)
	require.NoError(t, err)
	claims, err := util.ParseJWT(s, testSecret)
	require.NoError(t, err)
	return s, claims
}

func do(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	revoked := revokedSet{}
	r := newRouter(revoked)
	student, claims := token(t, model.Student)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "garbage").Code)
	assert.Equal(t, http.StatusOK, do(r, "/me", student).Code)
	assert.Equal(t, http.StatusOK, do(r, "/me?token="+student, "").Code)

	revoked[claims.ID] = true
	w := do(r, "/me", student)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), util.ErrTokenRevoked.Error())
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter(nil)
	student, _ := token(t, model.Student)
	admin, _ := token(t, model.Admin)

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", student).Code)
	assert.Equal(t, http.StatusOK, do(r, "/admin", admin).Code)
}
