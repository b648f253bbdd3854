package shift

import "time"

type Shift struct {
	ID         int64      `gorm:"primaryKey"`
	Username   string     `gorm:"column:username;index;not null"`
	Date       string     `gorm:"column:date;index;not null"`
	StartTime  string     `gorm:"column:start_time;not null"`
	EndTime    string     `gorm:"column:end_time;not null"`
	Notes      string     `gorm:"column:notes"`
	Department string     `gorm:"column:department"`
	Status     string     `gorm:"column:status;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	ApprovedBy *string    `gorm:"column:approved_by"`
	ApprovedAt *time.Time `gorm:"column:approved_at"`
	RejectedBy *string    `gorm:"column:rejected_by"`
	RejectedAt *time.Time `gorm:"column:rejected_at"`
}

func (Shift) TableName() string {
	return "shifts"
}
