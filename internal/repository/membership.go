// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"campfire/internal/models"

	"gorm.io/gorm"
)

// MembershipRepository defines the interface for membership data operations
type MembershipRepository interface {
	Create(ctx context.Context, membership *models.Membership) error
	Get(ctx context.Context, communityID, userID uint) (*models.Membership, error)
	ListByCommunity(ctx context.Context, communityID uint) ([]models.Membership, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Membership, error)
	UpdateRole(ctx context.Context, communityID, userID uint, from, to models.MembershipRole) (bool, error)
	DeleteUnlessLastAdmin(ctx context.Context, communityID, userID uint) (bool, error)
	DemoteUnlessLastAdmin(ctx context.Context, communityID, userID uint) (bool, error)
}

// membershipRepository implements MembershipRepository
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Create inserts a membership. The composite primary key turns a
// concurrent duplicate join into a conflict error.
func (r *membershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("User is already a member of this community")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *membershipRepository) Get(ctx context.Context, communityID, userID uint) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Membership", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &membership, nil
}

func (r *membershipRepository) ListByCommunity(ctx context.Context, communityID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Preload("User").
		Find(&memberships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return memberships, nil
}

func (r *membershipRepository) ListByUser(ctx context.Context, userID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Community").
		Find(&memberships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return memberships, nil
}

// UpdateRole transitions a membership role only when it currently holds
// the expected role. The guard serializes approve/leave races; losers see
// false.
func (r *membershipRepository) UpdateRole(ctx context.Context, communityID, userID uint, from, to models.MembershipRole) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("community_id = ? AND user_id = ? AND role = ?", communityID, userID, from).
		Update("role", to)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// adminCount builds a subquery counting the community's admins, for use
// as a guard inside write statements.
func (r *membershipRepository) adminCount(communityID uint) *gorm.DB {
	return r.db.Model(&models.Membership{}).
		Select("COUNT(*)").
		Where("community_id = ? AND role = ?", communityID, models.MembershipRoleAdmin)
}

// DeleteUnlessLastAdmin removes the membership unless it is the
// community's only admin membership. The admin count is evaluated inside
// the delete itself, so two concurrent removals of the last two admins
// cannot both succeed; the loser sees false.
func (r *membershipRepository) DeleteUnlessLastAdmin(ctx context.Context, communityID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Where("role <> ? OR (?) > 1", models.MembershipRoleAdmin, r.adminCount(communityID)).
		Delete(&models.Membership{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DemoteUnlessLastAdmin lowers an admin to member with the same in-write
// admin-count guard, so concurrent demotions leave at least one admin.
func (r *membershipRepository) DemoteUnlessLastAdmin(ctx context.Context, communityID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("community_id = ? AND user_id = ? AND role = ?", communityID, userID, models.MembershipRoleAdmin).
		Where("(?) > 1", r.adminCount(communityID)).
		Update("role", models.MembershipRoleMember)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}
