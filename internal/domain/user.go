package domain

import "time"

// User is a registered account. Records are immutable after creation.
type User struct {
	ID           int64     `gorm:"primaryKey;column:id" json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Links []Link `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
