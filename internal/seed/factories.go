// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"campfire/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control seeding behavior.
type Options struct {
	NumUsers       int
	NumCommunities int
	PostsPerUser   int
	// SkipBcrypt stores a plaintext marker password instead of a digest.
	// Only useful to speed up large local seeds; such accounts cannot log in.
	SkipBcrypt bool
	// MaxDays bounds how far in the past generated timestamps spread.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *Factory) pastTimestamp() time.Time {
	daysBack := f.rng.Intn(f.opts.MaxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample user account.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:     models.UserRoleUser,
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCommunity constructs and persists a community with the given creator
// installed as its admin, mirroring what the create-community endpoint does.
func (f *Factory) CreateCommunity(creator *models.User, overrides ...func(*models.Community)) (*models.Community, error) {
	name := gofakeit.BuzzWord() + " " + gofakeit.Noun()
	community := &models.Community{
		Name:            name,
		Slug:            slugify(name),
		Description:     gofakeit.Sentence(12),
		JoinPolicy:      models.JoinPolicyOpen,
		CreatedByUserID: &creator.ID,
	}
	if f.rng.Intn(3) == 0 {
		community.JoinPolicy = models.JoinPolicyRequest
	}

	for _, override := range overrides {
		override(community)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			return err
		}
		return tx.Create(&models.Membership{
			CommunityID: community.ID,
			UserID:      creator.ID,
			Role:        models.MembershipRoleAdmin,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return community, nil
}

// CreateMembership persists a membership for user in community with the given role.
func (f *Factory) CreateMembership(community *models.Community, user *models.User, role models.MembershipRole) error {
	return f.db.Create(&models.Membership{
		CommunityID: community.ID,
		UserID:      user.ID,
		Role:        role,
	}).Error
}

// CreateFriendship persists a friendship between two users with the given status.
func (f *Factory) CreateFriendship(requester, addressee *models.User, status models.FriendshipStatus) error {
	return f.db.Create(&models.Friendship{
		RequesterID: requester.ID,
		AddresseeID: addressee.ID,
		Status:      status,
	}).Error
}

// CreatePost constructs and persists a personal post for the given author.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:     gofakeit.Sentence(5),
		Content:   gofakeit.Paragraph(1, 3, 5, "\n"),
		AuthorID:  &author.ID,
		CreatedAt: f.pastTimestamp(),
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateCommunityPost constructs and persists a post owned by the community.
func (f *Factory) CreateCommunityPost(community *models.Community, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:       gofakeit.Sentence(5),
		Content:     gofakeit.Paragraph(1, 3, 5, "\n"),
		CommunityID: &community.ID,
		CreatedAt:   f.pastTimestamp(),
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a comment on the provided post
// authored by the provided user.
func (f *Factory) CreateComment(author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  gofakeit.Sentence(8),
		AuthorID: author.ID,
		PostID:   post.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from user on post.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	return f.db.Create(&models.Like{
		UserID: user.ID,
		PostID: post.ID,
	}).Error
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	if len(slug) > 20 {
		slug = strings.Trim(slug[:20], "-")
	}
	if len(slug) < 3 {
		slug = "c-" + gofakeit.LetterN(6)
	}
	// uniqueness tail keeps repeated seeds from colliding on the slug index
	return slug[:min(len(slug), 18)] + fmt.Sprintf("%02d", gofakeit.Number(0, 99))
}
