package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminSubject is the only subject the back office ever issues tokens for.
const AdminSubject = "admin"

// NewAdminToken issues a signed token for the back-office session.
func NewAdminToken(secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not set")
	}
	claims := jwt.MapClaims{
		"sub": AdminSubject,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
