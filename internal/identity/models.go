package identity

import (
	"time"

	"muniadmin/pkg/domain"
)

// User is an employee account that can sign in to the back office. The
// password hash never leaves the service layer.
type User struct {
	ID            int64                `json:"id"`
	Name          string               `json:"name"`
	Username      string               `json:"username"`
	PasswordHash  string               `json:"-"`
	Permissions   domain.PermissionSet `json:"permissions"`
	DepartmentIDs []int64              `json:"departmentsId"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is what a successful login or registration hands back to the
// transport layer.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateUserInput carries a partial update; nil fields are left untouched.
// Password, when present, is re-hashed before storage.
type UpdateUserInput struct {
	Name          *string               `json:"name"`
	Username      *string               `json:"username"`
	Password      *string               `json:"password"`
	Permissions   *domain.PermissionSet `json:"permissions"`
	DepartmentIDs *[]int64              `json:"departmentsId"`
}
