package models

import (
	"time"
)

// Article represents a blog article. Title, category and text are required;
// the creation timestamp is always server-assigned.
type Article struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Category    string    `gorm:"not null;index" json:"category"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CreatedDate time.Time `gorm:"autoCreateTime" json:"created_date"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user"`
}
