package user

import "time"

type User struct {
	ID         int64     `gorm:"primaryKey"`
	Username   string    `gorm:"column:username;size:100;uniqueIndex;not null"`
	Password   string    `gorm:"column:password;not null"`
	Role       string    `gorm:"column:role;not null"`
	Email      string    `gorm:"column:email"`
	Department string    `gorm:"column:department"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
