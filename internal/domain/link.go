package domain

import "time"

// Link maps a short code to its destination URL.
// The JSON field names are part of the wire contract consumed by the
// web client ({id, full, short, clicks, owner, createdAt}).
type Link struct {
	ID          int64     `gorm:"primaryKey;column:id" json:"id"`
	OriginalURL string    `gorm:"column:original_url;not null" json:"full"`
	ShortCode   string    `gorm:"column:short_code;uniqueIndex;not null" json:"short"`
	ClickCount  int64     `gorm:"column:click_count;not null;default:0" json:"clicks"`
	UserID      int64     `gorm:"column:user_id;not null;index" json:"owner"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Link) TableName() string {
	return "links"
}
