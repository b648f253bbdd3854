package notification

import (
	"time"

	notificationDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/notification"
)

type Type string

const (
	TypeApprovalNeeded Type = "approval_needed"
	TypeShiftApproved  Type = "shift_approved"
	TypeShiftRejected  Type = "shift_rejected"
	TypeShiftDeleted   Type = "shift_deleted"
)

// Notification is addressed either to a role or to a single username
// through TargetRole.
type Notification struct {
	ID         int64     `json:"id"`
	Type       Type      `json:"type"`
	Username   string    `json:"username"`
	TargetRole string    `json:"targetRole"`
	Date       string    `json:"date"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// VisibleTo mirrors the query used by the repository.
func (n *Notification) VisibleTo(username, role string) bool {
	return n.Username == username || n.TargetRole == username || n.TargetRole == role
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:         n.ID,
		Type:       string(n.Type),
		Username:   n.Username,
		TargetRole: n.TargetRole,
		Date:       n.Date,
		Message:    n.Message,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:         n.ID,
		Type:       Type(n.Type),
		Username:   n.Username,
		TargetRole: n.TargetRole,
		Date:       n.Date,
		Message:    n.Message,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}
