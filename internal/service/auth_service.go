package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noor-academy/student-portal-api/internal/models"
	"github.com/noor-academy/student-portal-api/pkg/config"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
)

// AuthService issues and validates portal session tokens. Students sign in
// with their code; the admin credential is a bcrypt hash from configuration
// rather than the hard-coded password the first deployment shipped with.
type AuthService struct {
	config    config.AuthConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(cfg config.AuthConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{config: cfg, validator: validate, logger: logger}
}

// StudentLogin authenticates a code/password pair and returns a session
// token. The admin password grants the admin role on any code; otherwise
// the password must equal the student's own code (legacy portal rule).
func (s *AuthService) StudentLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "code and password are required")
	}

	code := normalizeCode(req.Code)
	if len(code) < 2 {
		return nil, appErrors.Clone(appErrors.ErrInvalidCode, "")
	}
	if _, ok := models.ParseGradePrefix(code[:2]); !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownGradePrefix, "")
	}

	role := ""
	switch {
	case s.isAdminPassword(req.Password):
		role = models.RoleAdmin
	case req.Password == code:
		role = models.RoleStudent
	default:
		s.logger.Info("login rejected", zap.String("code", code))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	expiresAt := time.Now().Add(s.config.TokenExpiration)
	claims := &models.JWTClaims{
		StudentCode: code,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   code,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	return &models.LoginResponse{Token: signed, ExpiresAt: expiresAt, Role: role, Code: code}, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) isAdminPassword(password string) bool {
	if s.config.AdminPasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(password)) == nil
}
