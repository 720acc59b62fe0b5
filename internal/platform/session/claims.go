package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the portal reads from a backend-issued JWT.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// ParseClaims decodes a JWT without verifying its signature. The portal does
// not hold the backend's key; it only needs exp and role to decide whether
// to prompt for a new login before making a call that would 401 anyway.
func ParseClaims(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}
