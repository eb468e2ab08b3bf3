package rbac

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-auth-core/internal/domain"
)

type roleStore interface {
	Get(ctx context.Context, roleID string) (*domain.Role, error)
}

// Service computes effective permission sets. A user's effective set is
// the union of the permissions of all enabled roles assigned to them;
// checks are a literal set-membership test on "resource:action:scope".
type Service struct {
	roleRepo roleStore
}

func NewService(roleRepo roleStore) *Service {
	return &Service{roleRepo: roleRepo}
}

// PermissionsFor returns the user's effective permission set, sorted.
// Roles that no longer exist are skipped with a warning rather than
// failing the whole resolution.
func (s *Service) PermissionsFor(ctx context.Context, u *domain.User) ([]string, error) {
	set := make(map[string]struct{})
	for _, roleID := range u.Roles {
		role, err := s.roleRepo.Get(ctx, roleID)
		if err != nil {
			slog.Warn("skipping unresolvable role", "user_id", u.UserID, "role_id", roleID, "err", err)
			continue
		}
		if !role.Enable {
			continue
		}
		for _, p := range role.Permissions {
			set[p] = struct{}{}
		}
	}
	perms := make([]string, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return perms, nil
}

// HasPermission reports whether the user's effective set contains the
// literal "resource:action:scope" tuple.
func (s *Service) HasPermission(ctx context.Context, u *domain.User, resource, action, scope string) (bool, error) {
	perms, err := s.PermissionsFor(ctx, u)
	if err != nil {
		return false, err
	}
	want := fmt.Sprintf("%s:%s:%s", resource, action, scope)
	for _, p := range perms {
		if p == want {
			return true, nil
		}
	}
	return false, nil
}
