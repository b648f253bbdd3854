package user

import (
	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/auth"
	"github.com/frahmantamala/shift-scheduler/internal/core/common/validation"
)

// CreateUserDTO is the manager-only account creation payload.
type CreateUserDTO struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

func (d CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(64).Custom(auth.NotReservedUsername)
	v.Field("password", d.Password).Required().MaxLength(72)
	v.Field("role", d.Role).Required().OneOf(internal.ErrCodeInvalidRole, string(auth.RoleStaff), string(auth.RoleManager))
	v.Field("email", d.Email).MaxLength(255)
	v.Field("department", d.Department).MaxLength(100)
	return v.Validate()
}

type UsersResponse struct {
	Users []*User `json:"users"`
}
