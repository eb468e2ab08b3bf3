package domain

// Permission strings have the shape "resource:action:scope",
// e.g. "auth:read:users". Matching is literal: no wildcards, no hierarchy.
type Role struct {
	RoleID      string   `json:"id" dynamodbav:"role_id"`
	Name        string   `json:"name" dynamodbav:"name"`
	Enable      bool     `json:"enable" dynamodbav:"enable"`
	Permissions []string `json:"permissions,omitempty" dynamodbav:"permissions"`
}

type RoleInput struct {
	Name        string   `json:"name" validate:"required"`
	Enable      *bool    `json:"enable"`
	Permissions []string `json:"permissions"`
}

// Default role IDs seeded at bootstrap.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)
