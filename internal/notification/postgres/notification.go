package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	notificationDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/notification"
	"github.com/frahmantamala/shift-scheduler/internal/notification"
	"github.com/frahmantamala/shift-scheduler/internal/store"
)

const visibleClause = "username = ? OR target_role = ? OR target_role = ?"

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.RepositoryAPI {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	row := notification.ToDataModel(n)
	if err := store.Conn(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	n.ID = row.ID
	n.CreatedAt = row.CreatedAt
	return nil
}

func (r *NotificationRepository) ListVisible(ctx context.Context, username, role string) ([]*notification.Notification, error) {
	var rows []*notificationDatamodel.Notification
	err := store.Conn(ctx, r.db).
		Where(visibleClause, username, username, role).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	list := make([]*notification.Notification, 0, len(rows))
	for _, row := range rows {
		list = append(list, notification.FromDataModel(row))
	}
	return list, nil
}

// MarkRead matches already-read rows too, so repeating it still succeeds.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, username, role string) (bool, error) {
	res := store.Conn(ctx, r.db).
		Model(&notificationDatamodel.Notification{}).
		Where("id = ?", id).
		Where(visibleClause, username, username, role).
		Update("is_read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, username, role string) (int64, error) {
	res := store.Conn(ctx, r.db).
		Model(&notificationDatamodel.Notification{}).
		Where("is_read = ?", false).
		Where(visibleClause, username, username, role).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := store.Conn(ctx, r.db).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&notificationDatamodel.Notification{})
	return res.RowsAffected, res.Error
}
