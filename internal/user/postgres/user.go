package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/shift-scheduler/internal"
	notificationDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/notification"
	shiftDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/shift"
	userDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/user"
	"github.com/frahmantamala/shift-scheduler/internal/store"
	"github.com/frahmantamala/shift-scheduler/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	var rows []*userDatamodel.User
	if err := store.Conn(ctx, r.db).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]*user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, user.FromDataModel(row))
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var row userDatamodel.User
	if err := store.Conn(ctx, r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var row userDatamodel.User
	if err := store.Conn(ctx, r.db).Where("username = ?", username).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	row := user.ToDataModel(u)
	if err := store.Conn(ctx, r.db).Create(row).Error; err != nil {
		if store.IsUniqueViolation(err) {
			return internal.ErrUsernameTaken
		}
		return err
	}
	u.ID = row.ID
	u.CreatedAt = row.CreatedAt
	return nil
}

// Delete removes the user together with their shifts and notifications.
// Postgres also cascades through the username foreign key; the explicit
// deletes keep sqlite deployments consistent.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return store.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var row userDatamodel.User
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrUserNotFound
			}
			return err
		}
		if err := tx.Where("username = ?", row.Username).Delete(&notificationDatamodel.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("username = ?", row.Username).Delete(&shiftDatamodel.Shift{}).Error; err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
}
