// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the Campfire application. A post is owned
// either by its author (personal post, AuthorID set) or by a community
// (CommunityID set), never both and never neither.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	AuthorID    *uint      `gorm:"index" json:"author_id,omitempty"`
	Author      *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CommunityID *uint      `gorm:"index" json:"community_id,omitempty"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// Ownership resolves who may mutate the post. A post referencing both an
// author and a community, or neither, violates the single-owner invariant
// and surfaces as an internal inconsistency.
func (p *Post) Ownership() (Ownership, error) {
	switch {
	case p.AuthorID != nil && p.CommunityID == nil:
		return AuthoredBy(*p.AuthorID), nil
	case p.CommunityID != nil && p.AuthorID == nil:
		return OwnedByCommunity(*p.CommunityID), nil
	default:
		return Ownership{}, NewInconsistencyError("post must have exactly one of author or community")
	}
}
