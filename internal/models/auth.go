package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in session tokens.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// JWTClaims are the session claims issued on login.
type JWTClaims struct {
	StudentCode string `json:"studentCode,omitempty"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the student login payload.
type LoginRequest struct {
	Code     string `json:"code" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Role      string    `json:"role"`
	Code      string    `json:"code,omitempty"`
}
