package service

import (
	"context"
	"testing"

	"campfire/internal/models"
)

type postRepoStub struct {
	createFn           func(context.Context, *models.Post) error
	getByIDFn          func(context.Context, uint, uint) (*models.Post, error)
	listFn             func(context.Context, int, int, uint) ([]*models.Post, error)
	getByCommunityIDFn func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	getByAuthorIDFn    func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	deleteFn           func(context.Context, uint) error
	likeFn             func(context.Context, uint, uint) error
	unlikeFn           func(context.Context, uint, uint) error
	isLikedFn          func(context.Context, uint, uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) GetByCommunityID(ctx context.Context, communityID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByCommunityIDFn(ctx, communityID, limit, offset, currentUserID)
}
func (s *postRepoStub) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByAuthorIDFn(ctx, authorID, limit, offset, currentUserID)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, post *models.Post) error {
			post.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			author := uint(7)
			return &models.Post{ID: id, AuthorID: &author}, nil
		},
		listFn:             func(context.Context, int, int, uint) ([]*models.Post, error) { return nil, nil },
		getByCommunityIDFn: func(context.Context, uint, int, int, uint) ([]*models.Post, error) { return nil, nil },
		getByAuthorIDFn:    func(context.Context, uint, int, int, uint) ([]*models.Post, error) { return nil, nil },
		deleteFn:           func(context.Context, uint) error { return nil },
		likeFn:             func(context.Context, uint, uint) error { return nil },
		unlikeFn:           func(context.Context, uint, uint) error { return nil },
		isLikedFn:          func(context.Context, uint, uint) (bool, error) { return false, nil },
	}
}

func newPostService(posts *postRepoStub, memberships *membershipRepoStub) *PostService {
	authz := NewAuthorizer(memberships, regularUserRepo())
	return NewPostService(posts, memberships, authz)
}

func TestPostServiceCreatePersonalPost(t *testing.T) {
	posts := noopPostRepo()
	var created *models.Post
	posts.createFn = func(_ context.Context, post *models.Post) error {
		post.ID = 5
		created = post
		return nil
	}

	svc := newPostService(posts, noopMembershipRepo())
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  7,
		Title:   "hello",
		Content: "world",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.AuthorID == nil || *created.AuthorID != 7 {
		t.Fatalf("expected author 7, got %+v", created.AuthorID)
	}
	if created.CommunityID != nil {
		t.Fatal("personal post must not reference a community")
	}
}

func TestPostServiceCreateCommunityPostRequiresMembership(t *testing.T) {
	memberships := noopMembershipRepo()
	memberships.getFn = func(_ context.Context, _, userID uint) (*models.Membership, error) {
		return nil, models.NewNotFoundError("Membership", userID)
	}

	svc := newPostService(noopPostRepo(), memberships)
	communityID := uint(3)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:      7,
		Title:       "hello",
		Content:     "world",
		CommunityID: &communityID,
	})
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestPostServiceCreateCommunityPostWaitingMemberForbidden(t *testing.T) {
	memberships := noopMembershipRepo()
	memberships.getFn = func(_ context.Context, communityID, userID uint) (*models.Membership, error) {
		return &models.Membership{CommunityID: communityID, UserID: userID, Role: models.MembershipRoleWaiting}, nil
	}

	svc := newPostService(noopPostRepo(), memberships)
	communityID := uint(3)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:      7,
		Title:       "hello",
		Content:     "world",
		CommunityID: &communityID,
	})
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestPostServiceCreateCommunityPostOwnedByCommunity(t *testing.T) {
	posts := noopPostRepo()
	var created *models.Post
	posts.createFn = func(_ context.Context, post *models.Post) error {
		post.ID = 5
		created = post
		return nil
	}

	svc := newPostService(posts, noopMembershipRepo())
	communityID := uint(3)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:      7,
		Title:       "hello",
		Content:     "world",
		CommunityID: &communityID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.CommunityID == nil || *created.CommunityID != 3 {
		t.Fatalf("expected community 3 as owner, got %+v", created.CommunityID)
	}
	if created.AuthorID != nil {
		t.Fatal("community post must not reference an author")
	}
}

func TestPostServiceCreateValidatesInput(t *testing.T) {
	svc := newPostService(noopPostRepo(), noopMembershipRepo())

	_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 7, Content: "body"})
	assertAppErrorCode(t, err, models.CodeValidation)

	_, err = svc.CreatePost(context.Background(), CreatePostInput{UserID: 7, Title: "title"})
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestPostServiceDeleteByAuthor(t *testing.T) {
	posts := noopPostRepo()
	var deleted uint
	posts.deleteFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}

	svc := newPostService(posts, noopMembershipRepo())
	if err := svc.DeletePost(context.Background(), 1, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected post 1 deleted, got %d", deleted)
	}
}

func TestPostServiceDeleteByStrangerForbidden(t *testing.T) {
	svc := newPostService(noopPostRepo(), noopMembershipRepo())
	err := svc.DeletePost(context.Background(), 1, 8)
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestPostServiceDeleteCommunityPostByCommunityAdmin(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		communityID := uint(3)
		return &models.Post{ID: id, CommunityID: &communityID}, nil
	}

	svc := newPostService(posts, adminMembershipRepo(9))
	if err := svc.DeletePost(context.Background(), 1, 9); err != nil {
		t.Fatalf("community admin should delete community post: %v", err)
	}

	err := svc.DeletePost(context.Background(), 1, 8)
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestPostServiceDeleteOwnerlessPostInconsistent(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id}, nil
	}

	svc := newPostService(posts, noopMembershipRepo())
	err := svc.DeletePost(context.Background(), 1, 7)
	assertAppErrorCode(t, err, models.CodeInconsistency)
}

func TestPostServiceLikeCommunityPostRequiresMembership(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		communityID := uint(3)
		return &models.Post{ID: id, CommunityID: &communityID}, nil
	}
	memberships := noopMembershipRepo()
	memberships.getFn = func(_ context.Context, _, userID uint) (*models.Membership, error) {
		return nil, models.NewNotFoundError("Membership", userID)
	}

	svc := newPostService(posts, memberships)
	err := svc.LikePost(context.Background(), 1, 7)
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestPostServiceLikeMissingPost(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}

	svc := newPostService(posts, noopMembershipRepo())
	err := svc.LikePost(context.Background(), 99, 7)
	assertAppErrorCode(t, err, models.CodeNotFound)
}
