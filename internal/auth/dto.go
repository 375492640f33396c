package auth

import (
	"strings"

	"github.com/centrushr/hr-management/internal"
)

// LoginDTO is the transport shape for login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationFieldError("email", "email is required")
	}
	if d.Password == "" {
		return internal.NewValidationFieldError("password", "password is required")
	}
	return nil
}

type CreateUserDTO struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	Role             Role     `json:"role"`
	Permissions      []string `json:"permissions"`
	CanCreateTravel  bool     `json:"can_create_travel"`
	CanApproveTravel bool     `json:"can_approve_travel"`
	CanDeleteTravel  bool     `json:"can_delete_travel"`
}

func (d CreateUserDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationFieldError("name", "name is required")
	}
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationFieldError("email", "email is required")
	}
	if !strings.Contains(d.Email, "@") {
		return internal.NewValidationFieldError("email", "email is invalid")
	}
	if len(d.Password) < 6 {
		return internal.NewValidationFieldError("password", "password must be at least 6 characters")
	}
	switch d.Role {
	case "", RoleAdmin, RoleStandard:
	default:
		return internal.NewValidationFieldError("role", "role must be admin or standard")
	}
	return nil
}

// UpdateUserDTO carries an admin edit. Password is optional: blank keeps
// the current digest.
type UpdateUserDTO struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Password         string   `json:"password,omitempty"`
	Role             Role     `json:"role"`
	Permissions      []string `json:"permissions"`
	CanCreateTravel  bool     `json:"can_create_travel"`
	CanApproveTravel bool     `json:"can_approve_travel"`
	CanDeleteTravel  bool     `json:"can_delete_travel"`
}

func (d UpdateUserDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationFieldError("name", "name is required")
	}
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationFieldError("email", "email is required")
	}
	if d.Password != "" && len(d.Password) < 6 {
		return internal.NewValidationFieldError("password", "password must be at least 6 characters")
	}
	switch d.Role {
	case RoleAdmin, RoleStandard:
	default:
		return internal.NewValidationFieldError("role", "role must be admin or standard")
	}
	return nil
}

type SetStatusDTO struct {
	Active bool `json:"active"`
}

// NormalizeEmail lowercases for uniqueness comparison. The original system
// compared case-sensitively; normalizing is the resolved open question.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
