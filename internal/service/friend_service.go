// Package service contains the business logic between handlers and
// repositories.
package service

import (
	"context"

	"campfire/internal/models"
	"campfire/internal/repository"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// GetFriendship returns the friendship record between two users, or a
// not-found error when none exists in either direction.
func (s *FriendService) GetFriendship(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	friendship, err := s.friendRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if friendship == nil {
		return nil, models.NewNotFoundError("Friendship", targetUserID)
	}
	return friendship, nil
}

// SendFriendRequest sends a friend request to the target user.
func (s *FriendService) SendFriendRequest(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	if userID == targetUserID {
		return nil, models.NewValidationError("Cannot send friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendshipStatusAccepted:
			return nil, models.NewConflictError("You are already friends")
		case models.FriendshipStatusPending:
			if existing.RequesterID == userID {
				return nil, models.NewConflictError("Friend request already sent")
			}
			return nil, models.NewConflictError("You already have a pending friend request from this user")
		}
	}

	friendship := &models.Friendship{
		RequesterID: userID,
		AddresseeID: targetUserID,
		Status:      models.FriendshipStatusPending,
	}
	// The unique pair index catches the race where both sides send at
	// once; the loser surfaces the conflict from the repository.
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// AcceptFriendRequest accepts the pending request between the caller and
// the target user. Only the addressee may accept; the requester trying to
// self-accept is a semantically invalid transition, not a missing record.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if friendship == nil || friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewNotFoundError("Friend request", targetUserID)
	}
	if friendship.RequesterID == userID {
		return nil, models.NewValidationError("You cannot accept a friend request you sent")
	}

	accepted, err := s.friendRepo.AcceptPending(ctx, friendship.ID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		// A concurrent accept or removal got there first.
		return nil, models.NewNotFoundError("Friend request", targetUserID)
	}

	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// RemoveFriend deletes whatever relationship exists between the pair. It
// unfriends an accepted friendship and doubles as reject (addressee) or
// cancel (requester) for a pending request.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, targetUserID uint) error {
	friendship, err := s.friendRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return err
	}
	if friendship == nil {
		return models.NewNotFoundError("Friendship", targetUserID)
	}

	removed, err := s.friendRepo.DeleteBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFoundError("Friendship", targetUserID)
	}
	return nil
}

// GetFriends returns the list of friends for the user.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendRepo.GetFriends(ctx, userID)
}

// GetPendingRequests returns pending friend requests addressed to the user.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetPendingRequests(ctx, userID)
}

// GetSentRequests returns friend requests sent by the user.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetSentRequests(ctx, userID)
}

// GetFriendshipStatus returns the friendship status between two users.
func (s *FriendService) GetFriendshipStatus(ctx context.Context, userID, targetUserID uint) (string, uint, *models.Friendship, error) {
	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return "", 0, nil, err
	}

	friendship, err := s.friendRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return "", 0, nil, err
	}

	status := "none"
	var requestID uint
	if friendship != nil {
		switch friendship.Status {
		case models.FriendshipStatusAccepted:
			status = "friends"
		case models.FriendshipStatusPending:
			requestID = friendship.ID
			if friendship.RequesterID == userID {
				status = "pending_sent"
			} else {
				status = "pending_received"
			}
		default:
			status = string(friendship.Status)
		}
	}

	return status, requestID, friendship, nil
}
