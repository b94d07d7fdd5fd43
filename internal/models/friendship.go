// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendshipStatus represents the status of a friendship request.
type FriendshipStatus string

const (
	// FriendshipStatusPending indicates a pending friendship request.
	FriendshipStatusPending FriendshipStatus = "pending"
	// FriendshipStatusAccepted indicates an accepted friendship request.
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// Friendship represents a friendship relationship between two users.
// Direction (requester vs. addressee) matters for the accept right; the
// normalized UserLoID/UserHiID pair carries a unique index so at most one
// record can exist per unordered pair, whichever side asked first.
type Friendship struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;index" json:"requester_id"`
	AddresseeID uint             `gorm:"not null;index" json:"addressee_id"`
	UserLoID    uint             `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"-"`
	UserHiID    uint             `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"-"`
	Status      FriendshipStatus `gorm:"type:varchar(20);default:'pending';index:idx_friendships_status" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relationships
	Requester User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Addressee User `gorm:"foreignKey:AddresseeID" json:"addressee,omitempty"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// BeforeCreate normalizes the pair columns backing the uniqueness
// constraint. Requester/addressee direction is preserved as written.
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	f.UserLoID, f.UserHiID = normalizePair(f.RequesterID, f.AddresseeID)
	return nil
}

// Involves reports whether the given user is one side of the friendship.
func (f *Friendship) Involves(userID uint) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

func normalizePair(a, b uint) (lo, hi uint) {
	if a < b {
		return a, b
	}
	return b, a
}
