package auth

import (
	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *internal.AppError {
	if d.Username == "" || d.Password == "" {
		return internal.NewValidationError("username and password are required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// RegisterDTO is the public sign-up payload. Role is accepted for wire
// compatibility but public sign-ups are always staff.
type RegisterDTO struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role,omitempty"`
}

func (d RegisterDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(64).Custom(NotReservedUsername)
	v.Field("password", d.Password).Required().MaxLength(72)
	v.Field("email", d.Email).MaxLength(255)
	v.Field("department", d.Department).MaxLength(100)
	return v.Validate()
}

// NotReservedUsername is a username field validator.
func NotReservedUsername(value interface{}) *internal.AppError {
	if name, ok := value.(string); ok && IsReservedUsername(name) {
		return internal.NewValidationFieldError("username", "username must not be a role name", internal.ErrCodeReservedUsername)
	}
	return nil
}
