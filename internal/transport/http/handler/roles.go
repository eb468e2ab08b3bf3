package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-auth-core/internal/domain"
	"github.com/go-auth-core/internal/pkg/id"
	"github.com/go-auth-core/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

type roleStore interface {
	Put(ctx context.Context, role *domain.Role) error
	Get(ctx context.Context, roleID string) (*domain.Role, error)
	Scan(ctx context.Context) ([]domain.Role, error)
	Update(ctx context.Context, roleID string, updates map[string]interface{}) error
	Delete(ctx context.Context, roleID string) error
}

// RoleHandler handles admin role management endpoints.
type RoleHandler struct {
	repo roleStore
}

func NewRoleHandler(repo roleStore) *RoleHandler {
	return &RoleHandler{repo: repo}
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.repo.Scan(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.RoleInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	enable := true
	if req.Enable != nil {
		enable = *req.Enable
	}
	role := &domain.Role{
		RoleID:      id.New(),
		Name:        req.Name,
		Enable:      enable,
		Permissions: req.Permissions,
	}
	if err := h.repo.Put(r.Context(), role); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, role)
}

func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	roleID := chi.URLParam(r, "id")
	var req domain.RoleInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Enable != nil {
		updates["enable"] = *req.Enable
	}
	if req.Permissions != nil {
		updates["permissions"] = req.Permissions
	}
	if len(updates) == 0 {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if err := h.repo.Update(r.Context(), roleID, updates); err != nil {
		writeDomainError(w, err)
		return
	}
	role, err := h.repo.Get(r.Context(), roleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Role deleted"})
}
