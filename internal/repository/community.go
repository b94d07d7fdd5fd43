// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"campfire/internal/models"

	"gorm.io/gorm"
)

// CommunityRepository defines the interface for community data operations
type CommunityRepository interface {
	CreateWithAdmin(ctx context.Context, community *models.Community, adminUserID uint) error
	GetByID(ctx context.Context, id uint) (*models.Community, error)
	GetBySlug(ctx context.Context, slug string) (*models.Community, error)
	List(ctx context.Context, limit, offset int) ([]models.Community, error)
	DeleteWithMemberships(ctx context.Context, communityID uint) error
}

// communityRepository implements CommunityRepository
type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new community repository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

// CreateWithAdmin inserts the community and the creator's admin membership
// in one transaction, so no community ever exists without an admin.
func (r *communityRepository) CreateWithAdmin(ctx context.Context, community *models.Community, adminUserID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			return err
		}
		membership := &models.Membership{
			CommunityID: community.ID,
			UserID:      adminUserID,
			Role:        models.MembershipRoleAdmin,
		}
		return tx.Create(membership).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("A community with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *communityRepository) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).First(&community, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Community", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &community, nil
}

func (r *communityRepository) GetBySlug(ctx context.Context, slug string) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&community).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Community", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &community, nil
}

func (r *communityRepository) List(ctx context.Context, limit, offset int) ([]models.Community, error) {
	var communities []models.Community
	if err := r.db.WithContext(ctx).
		Limit(limit).
		Offset(offset).
		Order("name ASC").
		Find(&communities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return communities, nil
}

// DeleteWithMemberships removes the community, its memberships, and its
// posts as one atomic unit.
func (r *communityRepository) DeleteWithMemberships(ctx context.Context, communityID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("community_id = ?", communityID).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id = ?", communityID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Community{}, communityID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Community", communityID)
		}
		return models.NewInternalError(err)
	}
	return nil
}
