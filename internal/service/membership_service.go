package service

import (
	"context"
	"errors"

	"campfire/internal/models"
	"campfire/internal/repository"
)

// MembershipService owns the community membership lifecycle: joining,
// approval, leaving, role changes, and community create/delete.
type MembershipService struct {
	communityRepo  repository.CommunityRepository
	membershipRepo repository.MembershipRepository
}

// NewMembershipService returns a new MembershipService.
func NewMembershipService(communityRepo repository.CommunityRepository, membershipRepo repository.MembershipRepository) *MembershipService {
	return &MembershipService{
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
	}
}

// requireAdmin fails with a forbidden error unless the caller holds the
// admin role in the community.
func (s *MembershipService) requireAdmin(ctx context.Context, communityID, callerID uint) error {
	membership, err := s.membershipRepo.Get(ctx, communityID, callerID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return models.NewForbiddenError("You must be a community admin to perform this action")
		}
		return err
	}
	if !membership.IsAdmin() {
		return models.NewForbiddenError("You must be a community admin to perform this action")
	}
	return nil
}

// CreateCommunity creates a community and makes the creator its admin in
// one transaction, so the at-least-one-admin invariant holds from birth.
func (s *MembershipService) CreateCommunity(ctx context.Context, community *models.Community, creatorID uint) (*models.Community, error) {
	community.CreatedByUserID = &creatorID
	if err := s.communityRepo.CreateWithAdmin(ctx, community, creatorID); err != nil {
		return nil, err
	}
	return s.communityRepo.GetByID(ctx, community.ID)
}

// GetCommunity returns a community by ID.
func (s *MembershipService) GetCommunity(ctx context.Context, communityID uint) (*models.Community, error) {
	return s.communityRepo.GetByID(ctx, communityID)
}

// GetCommunityBySlug returns a community by its slug.
func (s *MembershipService) GetCommunityBySlug(ctx context.Context, slug string) (*models.Community, error) {
	return s.communityRepo.GetBySlug(ctx, slug)
}

// ListCommunities returns a page of communities.
func (s *MembershipService) ListCommunities(ctx context.Context, limit, offset int) ([]models.Community, error) {
	return s.communityRepo.List(ctx, limit, offset)
}

// Join adds the user to the community. The community's join policy decides
// the initial role: open communities admit members immediately, request
// communities park the joiner until an admin approves. The created
// membership is returned so callers can tell the two apart.
func (s *MembershipService) Join(ctx context.Context, communityID, userID uint) (*models.Membership, error) {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	role := models.MembershipRoleMember
	if community.JoinPolicy == models.JoinPolicyRequest {
		role = models.MembershipRoleWaiting
	}

	membership := &models.Membership{
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
	}
	// The composite primary key resolves a concurrent double-join: the
	// second insert comes back as a conflict.
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

// Approve admits a waiting joiner. Only community admins may approve.
func (s *MembershipService) Approve(ctx context.Context, communityID, userID, byAdminID uint) (*models.Membership, error) {
	if err := s.requireAdmin(ctx, communityID, byAdminID); err != nil {
		return nil, err
	}

	updated, err := s.membershipRepo.UpdateRole(ctx, communityID, userID,
		models.MembershipRoleWaiting, models.MembershipRoleMember)
	if err != nil {
		return nil, err
	}
	if !updated {
		// No waiting membership, or a concurrent approve/leave won.
		return nil, models.NewNotFoundError("Pending membership", userID)
	}

	return s.membershipRepo.Get(ctx, communityID, userID)
}

// removeMember runs the guarded delete and turns a refusal into the
// right error: validation when the target is the community's only admin,
// not-found otherwise.
func (s *MembershipService) removeMember(ctx context.Context, communityID, userID uint, soleAdminMsg string) error {
	removed, err := s.membershipRepo.DeleteUnlessLastAdmin(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if removed {
		return nil
	}

	membership, err := s.membershipRepo.Get(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if membership.IsAdmin() {
		return models.NewValidationError(soleAdminMsg)
	}
	return models.NewNotFoundError("Membership", userID)
}

// Leave removes the user's own membership. The sole admin may not leave;
// they must promote a replacement or delete the community instead. The
// admin count is re-checked inside the delete, so concurrent leaves by
// the last two admins cannot strip the community of its last admin.
func (s *MembershipService) Leave(ctx context.Context, communityID, userID uint) error {
	return s.removeMember(ctx, communityID, userID,
		"The only admin cannot leave; promote another admin or delete the community")
}

// Kick evicts a member from the community. Admin-only; the last admin can
// never be evicted.
func (s *MembershipService) Kick(ctx context.Context, communityID, userID, byAdminID uint) error {
	if err := s.requireAdmin(ctx, communityID, byAdminID); err != nil {
		return err
	}
	return s.removeMember(ctx, communityID, userID, "The only admin cannot be removed")
}

// Promote raises a member to admin. Admin-only.
func (s *MembershipService) Promote(ctx context.Context, communityID, userID, byAdminID uint) (*models.Membership, error) {
	if err := s.requireAdmin(ctx, communityID, byAdminID); err != nil {
		return nil, err
	}

	updated, err := s.membershipRepo.UpdateRole(ctx, communityID, userID,
		models.MembershipRoleMember, models.MembershipRoleAdmin)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, models.NewNotFoundError("Member", userID)
	}

	return s.membershipRepo.Get(ctx, communityID, userID)
}

// Demote lowers an admin back to member. Admin-only; refuses when the
// target is the last admin standing. The guard lives inside the update,
// so two admins demoting each other concurrently cannot both succeed.
func (s *MembershipService) Demote(ctx context.Context, communityID, userID, byAdminID uint) (*models.Membership, error) {
	if err := s.requireAdmin(ctx, communityID, byAdminID); err != nil {
		return nil, err
	}

	updated, err := s.membershipRepo.DemoteUnlessLastAdmin(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if !updated {
		membership, err := s.membershipRepo.Get(ctx, communityID, userID)
		if err != nil {
			return nil, err
		}
		if membership.IsAdmin() {
			return nil, models.NewValidationError("The only admin cannot be demoted")
		}
		return nil, models.NewNotFoundError("Admin", userID)
	}

	return s.membershipRepo.Get(ctx, communityID, userID)
}

// DeleteCommunity removes the community together with all of its
// memberships and posts. Admin-only.
func (s *MembershipService) DeleteCommunity(ctx context.Context, communityID, byUserID uint) error {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, communityID, byUserID); err != nil {
		return err
	}
	return s.communityRepo.DeleteWithMemberships(ctx, communityID)
}

// GetRole returns the user's role in the community, or a not-found error
// for non-members.
func (s *MembershipService) GetRole(ctx context.Context, communityID, userID uint) (models.MembershipRole, error) {
	membership, err := s.membershipRepo.Get(ctx, communityID, userID)
	if err != nil {
		return "", err
	}
	return membership.Role, nil
}

// ListMembers returns all memberships of a community.
func (s *MembershipService) ListMembers(ctx context.Context, communityID uint) ([]models.Membership, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}
	return s.membershipRepo.ListByCommunity(ctx, communityID)
}

// ListUserMemberships returns all memberships held by a user.
func (s *MembershipService) ListUserMemberships(ctx context.Context, userID uint) ([]models.Membership, error) {
	return s.membershipRepo.ListByUser(ctx, userID)
}
