package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/diogo/intellibrowse/internal/models"
)

// tokenClaims mirrors the backend's payload:
// {"subject": {"username": "...", "userid": 1}, "exp": 1700000000}
type tokenClaims struct {
	Subject struct {
		Username string `json:"username"`
		UserID   any    `json:"userid"`
	} `json:"subject"`
	jwt.RegisteredClaims
}

// DecodeClaims reads the token payload without verifying its signature.
// The result is for display; access decisions come from the backend.
func DecodeClaims(token string) (models.Claims, error) {
	var tc tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return models.Claims{}, fmt.Errorf("decode token: %w", err)
	}

	claims := models.Claims{Username: tc.Subject.Username}
	if tc.Subject.UserID != nil {
		switch id := tc.Subject.UserID.(type) {
		case float64:
			claims.UserID = fmt.Sprintf("%.0f", id)
		default:
			claims.UserID = fmt.Sprint(id)
		}
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}
