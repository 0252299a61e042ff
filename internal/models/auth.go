package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role represents who passed an access gate.
type Role string

// Available roles.
const (
	RoleAdmin   Role = "ADMIN"
	RoleStudent Role = "STUDENT"
)

// AccessRequest carries the passphrase for one of the gates.
type AccessRequest struct {
	Role       Role   `json:"role" validate:"required,oneof=ADMIN STUDENT"`
	Passphrase string `json:"passphrase" validate:"required"`
}

// AccessResponse returns the issued gate token.
type AccessResponse struct {
	AccessToken string    `json:"access_token"`
	Role        Role      `json:"role"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for gate tokens.
type JWTClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Pagination describes paging metadata returned by list endpoints.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
