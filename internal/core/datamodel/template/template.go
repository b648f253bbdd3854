package template

import "time"

type Template struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	StartTime string    `gorm:"column:start_time;not null"`
	EndTime   string    `gorm:"column:end_time;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Template) TableName() string {
	return "templates"
}
