package repository

import (
	"context"
	"testing"

	"campfire/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.Community{},
		&models.Membership{},
		&models.Post{},
	))
	return db
}

func createRepoTestUsers(t *testing.T, db *gorm.DB, n int) []models.User {
	t.Helper()
	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{
			Username: "user" + string(rune('a'+i)),
			Email:    "user" + string(rune('a'+i)) + "@example.com",
			Password: "pw",
		}
		require.NoError(t, db.Create(&users[i]).Error)
	}
	return users
}

func TestFriendRepository_PairUniqueness(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()
	users := createRepoTestUsers(t, db, 2)

	first := &models.Friendship{RequesterID: users[0].ID, AddresseeID: users[1].ID, Status: models.FriendshipStatusPending}
	require.NoError(t, repo.Create(ctx, first))

	// Same pair in the opposite direction hits the normalized unique index.
	reversed := &models.Friendship{RequesterID: users[1].ID, AddresseeID: users[0].ID, Status: models.FriendshipStatusPending}
	err := repo.Create(ctx, reversed)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)
}

func TestFriendRepository_GetBetweenUsersIsDirectionless(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()
	users := createRepoTestUsers(t, db, 3)

	require.NoError(t, repo.Create(ctx, &models.Friendship{
		RequesterID: users[0].ID,
		AddresseeID: users[1].ID,
		Status:      models.FriendshipStatusPending,
	}))

	forward, err := repo.GetBetweenUsers(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	require.NotNil(t, forward)

	backward, err := repo.GetBetweenUsers(ctx, users[1].ID, users[0].ID)
	require.NoError(t, err)
	require.NotNil(t, backward)
	assert.Equal(t, forward.ID, backward.ID)

	// A miss is (nil, nil), not an error.
	none, err := repo.GetBetweenUsers(ctx, users[0].ID, users[2].ID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestFriendRepository_AcceptPendingGuard(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()
	users := createRepoTestUsers(t, db, 2)

	friendship := &models.Friendship{RequesterID: users[0].ID, AddresseeID: users[1].ID, Status: models.FriendshipStatusPending}
	require.NoError(t, repo.Create(ctx, friendship))

	accepted, err := repo.AcceptPending(ctx, friendship.ID)
	require.NoError(t, err)
	assert.True(t, accepted)

	// A second accept loses the status guard.
	accepted, err = repo.AcceptPending(ctx, friendship.ID)
	require.NoError(t, err)
	assert.False(t, accepted)

	reloaded, err := repo.GetByID(ctx, friendship.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipStatusAccepted, reloaded.Status)
}

func TestFriendRepository_DeleteBetweenUsers(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()
	users := createRepoTestUsers(t, db, 2)

	require.NoError(t, repo.Create(ctx, &models.Friendship{
		RequesterID: users[0].ID,
		AddresseeID: users[1].ID,
		Status:      models.FriendshipStatusAccepted,
	}))

	// Deleting with reversed arguments still finds the pair.
	removed, err := repo.DeleteBetweenUsers(ctx, users[1].ID, users[0].ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteBetweenUsers(ctx, users[0].ID, users[1].ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFriendRepository_GetFriends(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()
	users := createRepoTestUsers(t, db, 4)

	// users[0] is friends with users[1] (as requester) and users[2] (as
	// addressee); the pending edge to users[3] must not count.
	require.NoError(t, repo.Create(ctx, &models.Friendship{
		RequesterID: users[0].ID, AddresseeID: users[1].ID, Status: models.FriendshipStatusAccepted,
	}))
	require.NoError(t, repo.Create(ctx, &models.Friendship{
		RequesterID: users[2].ID, AddresseeID: users[0].ID, Status: models.FriendshipStatusAccepted,
	}))
	require.NoError(t, repo.Create(ctx, &models.Friendship{
		RequesterID: users[0].ID, AddresseeID: users[3].ID, Status: models.FriendshipStatusPending,
	}))

	friends, err := repo.GetFriends(ctx, users[0].ID)
	require.NoError(t, err)
	require.Len(t, friends, 2)

	ids := []uint{friends[0].ID, friends[1].ID}
	assert.ElementsMatch(t, []uint{users[1].ID, users[2].ID}, ids)
}
