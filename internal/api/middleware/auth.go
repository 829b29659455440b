package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/identity"
)

type contextKey string

const identityKey contextKey = "identity"

// Auth extracts a bearer token, verifies it through the external auth
// layer's Verifier contract, and injects the resolved identity into the
// request context. Token issuance is out of scope; this middleware only
// consumes what it is handed.
func Auth(verifier identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("ERROR [middleware.Auth] missing authorization header")
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("ERROR [middleware.Auth] invalid authorization header format")
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			id, err := verifier.Verify(parts[1])
			if err != nil {
				log.Printf("ERROR [middleware.Auth] token validation failed: %v", err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, domain.Identity(id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity reads the identity bound to the request by Auth.
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}
