package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/auth"
	userDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/user"
	"github.com/frahmantamala/shift-scheduler/internal/store"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*auth.Account, error) {
	var row userDatamodel.User
	err := store.Conn(ctx, r.db).Where("username = ?", username).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return toAccount(&row), nil
}

func (r *Repository) Create(ctx context.Context, account *auth.Account) error {
	row := &userDatamodel.User{
		Username:   account.Username,
		Password:   account.PasswordHash,
		Role:       string(account.Role),
		Email:      account.Email,
		Department: account.Department,
	}
	if err := store.Conn(ctx, r.db).Create(row).Error; err != nil {
		if store.IsUniqueViolation(err) {
			return internal.ErrUsernameTaken
		}
		return err
	}
	account.ID = row.ID
	account.CreatedAt = row.CreatedAt
	return nil
}

func toAccount(row *userDatamodel.User) *auth.Account {
	return &auth.Account{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.Password,
		Role:         auth.Role(row.Role),
		Email:        row.Email,
		Department:   row.Department,
		CreatedAt:    row.CreatedAt,
	}
}
