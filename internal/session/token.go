package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields read from a provider-issued ID token.
type Claims struct {
	UserID   string
	Email    string
	Expiry   time.Time
	AuthTime time.Time
}

type idTokenClaims struct {
	Email    string `json:"email"`
	AuthTime int64  `json:"auth_time"`
	jwt.RegisteredClaims
}

// ParseIDToken decodes an ID token without verifying its signature.
func ParseIDToken(raw string) (Claims, error) {
	var c idTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &c); err != nil {
		return Claims{}, fmt.Errorf("parse id token: %w", err)
	}
	if c.Subject == "" {
		return Claims{}, fmt.Errorf("parse id token: missing subject")
	}
	out := Claims{UserID: c.Subject, Email: c.Email}
	if c.ExpiresAt != nil {
		out.Expiry = c.ExpiresAt.Time
	}
	if c.AuthTime > 0 {
		out.AuthTime = time.Unix(c.AuthTime, 0)
	}
	return out, nil
}
