package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-auth-core/internal/application/auth"
)

type contextKey string

const identityKey contextKey = "identity"

type tokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*auth.Identity, error)
}

// BearerToken extracts the token from the Authorization header, or ""
// when the header is missing or not a bearer scheme.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// Auth returns middleware that resolves the bearer token to a live
// identity (signature, expiry, revocation, and account status checks) and
// injects it into the request context.
func Auth(svc tokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			identity, err := svc.VerifyToken(r.Context(), token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid, expired, or revoked token")
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the resolved identity from the request context.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*auth.Identity)
	return id, ok
}
