package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noor-academy/student-portal-api/internal/models"
	"github.com/noor-academy/student-portal-api/pkg/config"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
)

func newAuthService(t *testing.T, adminPassword string) *AuthService {
	t.Helper()
	cfg := config.AuthConfig{
		JWTSecret:       "test-secret",
		TokenExpiration: time.Hour,
	}
	if adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
		require.NoError(t, err)
		cfg.AdminPasswordHash = string(hash)
	}
	return NewAuthService(cfg, nil, zap.NewNop())
}

func TestStudentLoginWithOwnCode(t *testing.T) {
	svc := newAuthService(t, "")

	resp, err := svc.StudentLogin(context.Background(), models.LoginRequest{Code: "  g4001 ", Password: "G4001"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, resp.Role)
	assert.Equal(t, "G4001", resp.Code)
	assert.NotEmpty(t, resp.Token)
}

func TestStudentLoginAdminPassword(t *testing.T) {
	svc := newAuthService(t, "correct-horse")

	resp, err := svc.StudentLogin(context.Background(), models.LoginRequest{Code: "G4001", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Role)
}

func TestStudentLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t, "correct-horse")

	_, err := svc.StudentLogin(context.Background(), models.LoginRequest{Code: "G4001", Password: "G4002"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestStudentLoginRejectsBadCode(t *testing.T) {
	svc := newAuthService(t, "")

	_, err := svc.StudentLogin(context.Background(), models.LoginRequest{Code: "XY123", Password: "XY123"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnknownGradePrefix))
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := newAuthService(t, "")

	resp, err := svc.StudentLogin(context.Background(), models.LoginRequest{Code: "P1007", Password: "P1007"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "P1007", claims.StudentCode)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t, "")

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := newAuthService(t, "")
	verifier := NewAuthService(config.AuthConfig{JWTSecret: "other-secret", TokenExpiration: time.Hour}, nil, zap.NewNop())

	resp, err := issuer.StudentLogin(context.Background(), models.LoginRequest{Code: "G5012", Password: "G5012"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(resp.Token)
	require.Error(t, err)
}
