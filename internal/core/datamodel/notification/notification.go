package notification

import "time"

// Notification.TargetRole holds a role name or, for owner-addressed notices,
// a username, so it is sized like users.username.
type Notification struct {
	ID         int64     `gorm:"primaryKey"`
	Type       string    `gorm:"column:type;not null"`
	Username   string    `gorm:"column:username;size:100;index;not null"`
	TargetRole string    `gorm:"column:target_role;size:100;index;not null"`
	Date       string    `gorm:"column:date"`
	Message    string    `gorm:"column:message;not null"`
	IsRead     bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
