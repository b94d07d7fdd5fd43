package models

import "time"

// JoinPolicy controls how new members enter a community.
type JoinPolicy string

const (
	// JoinPolicyOpen admits joiners as members immediately.
	JoinPolicyOpen JoinPolicy = "open"
	// JoinPolicyRequest parks joiners until an admin approves them.
	JoinPolicyRequest JoinPolicy = "request"
)

// Community represents a named group of users with a join policy.
type Community struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"size:120;not null" json:"name"`
	Slug            string     `gorm:"size:24;not null;uniqueIndex" json:"slug"`
	Description     string     `gorm:"type:text" json:"description"`
	JoinPolicy      JoinPolicy `gorm:"type:varchar(20);not null;default:'open'" json:"join_policy"`
	CreatedByUserID *uint      `json:"created_by_user_id"`
	CreatedByUser   *User      `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Community) TableName() string {
	return "communities"
}
