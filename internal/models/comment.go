package models

import (
	"time"
)

// Comment is a visitor comment on an article. The author name is free text,
// not tied to a User record, so comments carry no ownership.
//
// ArticleID is intentionally not declared as a gorm relation: comment
// creation does not verify the referenced article still exists (the store
// stays lenient, matching the cascading-delete race the delete path closes
// by removing comments in the same transaction).
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AuthorName string    `gorm:"not null" json:"author_name"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	Date       time.Time `gorm:"autoCreateTime" json:"date"`
	ArticleID  uint      `gorm:"not null;index" json:"article_id"`
}
