package middleware

import (
	"context"
	"net/http"

	"github.com/go-auth-core/internal/domain"
)

type permissionChecker interface {
	HasPermission(ctx context.Context, u *domain.User, resource, action, scope string) (bool, error)
}

// RequirePermission returns middleware that allows access only when the
// authenticated user's effective permission set contains the literal
// "resource:action:scope" tuple. Missing identity yields 401, a valid
// identity without the permission yields 403.
func RequirePermission(checker permissionChecker, resource, action, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			allowed, err := checker.HasPermission(r.Context(), identity.User, resource, action, scope)
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if !allowed {
				writeJSONError(w, http.StatusForbidden, "Permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
