package utils

import (
	stderrors "errors"
	"time"

	"event-dashboard-api/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSecret []byte

// InitTokenSecret must be called once at startup before any token is
// validated.
func InitTokenSecret(secret string) {
	jwtSecret = []byte(secret)
}

// TokenClaims is the identity extracted from a bearer token. Session
// issuance lives in the identity provider, not here; this service only
// verifies.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	jwt.RegisteredClaims
}

// ValidateAndParseToken verifies the signature and expiry of a bearer
// token and returns its claims.
func ValidateAndParseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "unexpected signing method", nil)
		}
		return jwtSecret, nil
	})
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.NewAppError(errors.ErrTokenExpired, "token expired", err)
		}
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token", err)
	}
	if !token.Valid {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token", nil)
	}
	return claims, nil
}

// GenerateToken signs a token for the given identity. Used by tests and
// local tooling; production tokens come from the identity provider.
func GenerateToken(userID uuid.UUID, email, name string, ttl time.Duration) (string, error) {
	claims := &TokenClaims{
		UserID: userID,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}
