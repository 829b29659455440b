package main

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// mintToken signs a bot identity into the same HS256 "identity" claim shape
// internal/identity.JWTVerifier reads, using the backend's own JWT_SECRET.
// Real clients get their tokens from an external login flow; this tool
// stands in for that flow during local development.
func mintToken(secret, identity string) (string, error) {
	claims := jwt.MapClaims{
		"identity": identity,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(6 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
