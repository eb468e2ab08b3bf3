package handler

import (
	"context"
	"net/http"

	"github.com/go-auth-core/internal/domain"
)

type userStore interface {
	Scan(ctx context.Context) ([]domain.User, error)
}

// UserHandler exposes the admin user listing.
type UserHandler struct {
	repo userStore
}

func NewUserHandler(repo userStore) *UserHandler {
	return &UserHandler{repo: repo}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.Scan(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]*domain.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	writeJSON(w, http.StatusOK, out)
}
