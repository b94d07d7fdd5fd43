package service

import (
	"context"
	"errors"

	"campfire/internal/models"
	"campfire/internal/repository"
)

// PostService owns post creation, listing, deletion, and likes.
type PostService struct {
	postRepo       repository.PostRepository
	membershipRepo repository.MembershipRepository
	authz          *Authorizer
}

// CreatePostInput is the payload for creating a post.
type CreatePostInput struct {
	UserID      uint
	Title       string
	Content     string
	CommunityID *uint
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, membershipRepo repository.MembershipRepository, authz *Authorizer) *PostService {
	return &PostService{
		postRepo:       postRepo,
		membershipRepo: membershipRepo,
		authz:          authz,
	}
}

// requireMember fails unless the user is an admitted member of the
// community. Joiners still waiting for approval do not count.
func (s *PostService) requireMember(ctx context.Context, communityID, userID uint) error {
	membership, err := s.membershipRepo.Get(ctx, communityID, userID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return models.NewForbiddenError("You must be a member of this community")
		}
		return err
	}
	if membership.Role == models.MembershipRoleWaiting {
		return models.NewForbiddenError("Your membership is still awaiting approval")
	}
	return nil
}

// CreatePost creates a personal post, or a community post when a community
// is given. Community posts require membership and are owned by the
// community rather than the writer.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxTitleLen = 300
	const maxContentLen = 50000

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
	}
	if in.CommunityID != nil {
		if err := s.requireMember(ctx, *in.CommunityID, in.UserID); err != nil {
			return nil, err
		}
		post.CommunityID = in.CommunityID
	} else {
		userID := in.UserID
		post.AuthorID = &userID
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// GetPost returns a post with its computed counters for the current user.
func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

// ListPosts returns a page of posts.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, currentUserID)
}

// ListCommunityPosts returns a page of a community's posts.
func (s *PostService) ListCommunityPosts(ctx context.Context, communityID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByCommunityID(ctx, communityID, limit, offset, currentUserID)
}

// ListUserPosts returns a page of a user's personal posts.
func (s *PostService) ListUserPosts(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByAuthorID(ctx, authorID, limit, offset, currentUserID)
}

// DeletePost deletes a post after the ownership check: the author for
// personal posts, a community admin for community posts. Existence is
// resolved before authorization, so a missing post is not-found even for
// strangers.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}

	if err := s.authz.CanMutateOwned(ctx, userID, post); err != nil {
		return err
	}

	return s.postRepo.Delete(ctx, postID)
}

// LikePost records a like. Liking twice is a no-op. Community posts can
// only be liked by members.
func (s *PostService) LikePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.CommunityID != nil {
		if err := s.requireMember(ctx, *post.CommunityID, userID); err != nil {
			return err
		}
	}
	return s.postRepo.Like(ctx, userID, postID)
}

// UnlikePost removes the user's like from a post.
func (s *PostService) UnlikePost(ctx context.Context, postID, userID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return err
	}
	return s.postRepo.Unlike(ctx, userID, postID)
}
