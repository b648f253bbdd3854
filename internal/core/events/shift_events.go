package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeShiftApproved = "shift.approved"
	EventTypeShiftRejected = "shift.rejected"
	EventTypeShiftDeleted  = "shift.deleted"
)

// ShiftReviewedEvent is published after a shift decision has been committed.
type ShiftReviewedEvent struct {
	BaseEvent
	ShiftID   int64  `json:"shift_id"`
	Owner     string `json:"owner"`
	Actor     string `json:"actor"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func NewShiftReviewedEvent(eventType string, shiftID int64, owner, actor, date, start, end string) *ShiftReviewedEvent {
	return &ShiftReviewedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"shift_id":   shiftID,
				"owner":      owner,
				"actor":      actor,
				"date":       date,
				"start_time": start,
				"end_time":   end,
			},
		},
		ShiftID:   shiftID,
		Owner:     owner,
		Actor:     actor,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}
}
