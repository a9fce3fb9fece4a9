package services

import (
	"fmt"
	"time"

	"github.com/edtech-scanner/app-auth/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService mints and parses session tokens. Issuance is a pure
// function of its inputs plus the current time; no shared mutable
// state is involved.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a token service signing with the given secret
func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue mints a signed session token bound to the resolved identity
// and the authentication method that established it
func (t *TokenService) Issue(subjectID string, authMethod models.AuthMethod) (string, error) {
	now := time.Now()
	claims := models.SessionClaims{
		AuthMethod: string(authMethod),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Expiry returns the configured token lifetime
func (t *TokenService) Expiry() time.Duration {
	return t.expiry
}

// Parse validates the signature and expiry of a session token and
// returns its claims
func (t *TokenService) Parse(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}
