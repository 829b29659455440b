package identity

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier extracts a caller's identity from a bearer token. Token
// issuance (login, signup, password policy) is handled upstream by an
// external collaborator; only verification is this module's concern.
type Verifier interface {
	Verify(token string) (string, error)
}

// JWTVerifier is the concrete Verifier backed by golang-jwt, reading the
// caller's gameName#tagLine identity from the "identity" claim.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	id, ok := claims["identity"].(string)
	if !ok || id == "" {
		return "", errors.New("token missing identity claim")
	}
	return id, nil
}
