package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noor-academy/student-portal-api/internal/models"
	"github.com/noor-academy/student-portal-api/internal/service"
	"github.com/noor-academy/student-portal-api/pkg/config"
)

func newRouter(t *testing.T) (*gin.Engine, string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	auth := service.NewAuthService(config.AuthConfig{
		JWTSecret:         "test-secret",
		TokenExpiration:   time.Hour,
		AdminPasswordHash: string(hash),
	}, nil, zap.NewNop())

	student, err := auth.StudentLogin(context.Background(), models.LoginRequest{Code: "G4001", Password: "G4001"})
	require.NoError(t, err)
	admin, err := auth.StudentLogin(context.Background(), models.LoginRequest{Code: "G4001", Password: "admin-pass"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", JWT(auth), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/admin", JWT(auth), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, student.Token, admin.Token
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	r, _, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	r, token, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAcceptsBearerToken(t *testing.T) {
	r, token, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminBlocksStudents(t *testing.T) {
	r, student, admin := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+student)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimit(nil, config.RateLimitConfig{Enabled: true}, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code, "a nil redis client disables the limiter")
}
