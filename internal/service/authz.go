package service

import (
	"context"
	"errors"
	"log/slog"

	"campfire/internal/middleware"
	"campfire/internal/models"
	"campfire/internal/repository"
)

// Authorizer answers whether a caller may mutate a resource given its
// ownership. Personally-authored resources belong to their author;
// community-owned resources belong to the community's admins. Site-wide
// admins may mutate anything.
type Authorizer struct {
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
}

// NewAuthorizer returns a new Authorizer.
func NewAuthorizer(membershipRepo repository.MembershipRepository, userRepo repository.UserRepository) *Authorizer {
	return &Authorizer{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
	}
}

// CanMutateOwned resolves the resource's ownership and applies CanMutate.
// A resource that cannot name its owner is a broken write path; it gets
// logged as a defect here so every such row is visible, not only the ones
// whose ownership resolves cleanly.
func (a *Authorizer) CanMutateOwned(ctx context.Context, callerID uint, resource models.Owned) error {
	ownership, err := resource.Ownership()
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeInconsistency {
			middleware.Logger.ErrorContext(ctx, "resource cannot name its owner",
				slog.Uint64("caller_id", uint64(callerID)),
				slog.String("detail", appErr.Message),
			)
		}
		return err
	}
	return a.CanMutate(ctx, callerID, ownership)
}

// CanMutate returns nil when the caller may mutate a resource with the
// given ownership, a forbidden error when they may not, and an
// inconsistency error for ownerless resources. Callers are expected to
// have resolved existence first, so not-found wins over forbidden.
func (a *Authorizer) CanMutate(ctx context.Context, callerID uint, ownership models.Ownership) error {
	if authorID, ok := ownership.AuthorID(); ok {
		if authorID == callerID {
			return nil
		}
		return a.forbidUnlessSystemAdmin(ctx, callerID)
	}

	if communityID, ok := ownership.CommunityID(); ok {
		membership, err := a.membershipRepo.Get(ctx, communityID, callerID)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
				return a.forbidUnlessSystemAdmin(ctx, callerID)
			}
			return err
		}
		if membership.IsAdmin() {
			return nil
		}
		return a.forbidUnlessSystemAdmin(ctx, callerID)
	}

	// An ownerless resource means a write path broke the exactly-one-owner
	// invariant. Log it loudly; the caller gets a generic failure.
	middleware.Logger.ErrorContext(ctx, "resource has neither author nor community owner",
		slog.Uint64("caller_id", uint64(callerID)),
	)
	return models.NewInconsistencyError("resource has neither author nor community owner")
}

func (a *Authorizer) forbidUnlessSystemAdmin(ctx context.Context, callerID uint) error {
	user, err := a.userRepo.GetByID(ctx, callerID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return models.NewForbiddenError("You are not allowed to modify this resource")
		}
		return err
	}
	if user.IsAdmin() {
		return nil
	}
	return models.NewForbiddenError("You are not allowed to modify this resource")
}
