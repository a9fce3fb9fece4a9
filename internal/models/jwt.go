package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the claims carried by a session token
type SessionClaims struct {
	AuthMethod string `json:"auth_method"`
	jwt.RegisteredClaims
}
