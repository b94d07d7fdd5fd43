package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Comments are always directly
// authored; authorship alone decides who may mutate them.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}

// Ownership resolves who may mutate the comment.
func (c *Comment) Ownership() (Ownership, error) {
	if c.AuthorID == 0 {
		return Ownership{}, NewInconsistencyError("comment has no author")
	}
	return AuthoredBy(c.AuthorID), nil
}
