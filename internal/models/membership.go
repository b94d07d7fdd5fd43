package models

import "time"

// MembershipRole defines a member's role in a community.
type MembershipRole string

const (
	// MembershipRoleAdmin can approve joiners, manage roles, and delete the community.
	MembershipRoleAdmin MembershipRole = "admin"
	// MembershipRoleMember is the default role for admitted members.
	MembershipRoleMember MembershipRole = "member"
	// MembershipRoleWaiting marks a join request awaiting admin approval.
	MembershipRoleWaiting MembershipRole = "waiting_to_accept"
)

// Membership maps users to communities and tracks role. The composite
// primary key guarantees at most one membership per (community, user) pair.
type Membership struct {
	CommunityID uint           `gorm:"primaryKey;autoIncrement:false" json:"community_id"`
	Community   *Community     `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	UserID      uint           `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role        MembershipRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Membership) TableName() string {
	return "memberships"
}

// IsAdmin reports whether the membership carries the admin role.
func (m *Membership) IsAdmin() bool {
	return m.Role == MembershipRoleAdmin
}
