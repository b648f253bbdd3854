package user

import (
	"time"

	"github.com/frahmantamala/shift-scheduler/internal/auth"
	userDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/user"
)

// User is the administrative view of an account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) IsProtected() bool {
	return u.Username == auth.ProtectedUsername
}

func (u *User) Account() auth.Account {
	return auth.Account{
		ID:         u.ID,
		Username:   u.Username,
		Role:       u.Role,
		Email:      u.Email,
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
	}
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:         u.ID,
		Username:   u.Username,
		Password:   u.PasswordHash,
		Role:       string(u.Role),
		Email:      u.Email,
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.Password,
		Role:         auth.Role(u.Role),
		Email:        u.Email,
		Department:   u.Department,
		CreatedAt:    u.CreatedAt,
	}
}
