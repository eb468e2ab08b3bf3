package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-auth-core/internal/application/auth"
	"github.com/go-auth-core/internal/domain"
	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	allowed bool
	err     error
}

func (s *stubChecker) HasPermission(ctx context.Context, u *domain.User, resource, action, scope string) (bool, error) {
	return s.allowed, s.err
}

func authedRequest(t *testing.T) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	identity := &auth.Identity{User: &domain.User{UserID: "u1", Roles: []string{"staff"}}}
	return req.WithContext(context.WithValue(req.Context(), identityKey, identity))
}

func TestRequirePermission_NoIdentityIs401(t *testing.T) {
	h := RequirePermission(&stubChecker{allowed: true}, "auth", "read", "users")(okHandler(nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Not authenticated"}`, rec.Body.String())
}

func TestRequirePermission_DeniedIs403(t *testing.T) {
	h := RequirePermission(&stubChecker{allowed: false}, "auth", "write", "users")(okHandler(nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(t))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"detail":"Permission denied"}`, rec.Body.String())
}

func TestRequirePermission_Allowed(t *testing.T) {
	h := RequirePermission(&stubChecker{allowed: true}, "auth", "read", "users")(okHandler(nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(t))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermission_CheckerError(t *testing.T) {
	h := RequirePermission(&stubChecker{err: errors.New("role store down")}, "auth", "read", "users")(okHandler(nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(t))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
