package repository

import (
	"context"
	"testing"

	"campfire/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipRepository_DuplicateJoinConflicts(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()
	users := createRepoTestUsers(t, db, 1)

	community := &models.Community{Name: "Test", Slug: "test"}
	require.NoError(t, db.Create(community).Error)

	require.NoError(t, repo.Create(ctx, &models.Membership{
		CommunityID: community.ID, UserID: users[0].ID, Role: models.MembershipRoleMember,
	}))

	err := repo.Create(ctx, &models.Membership{
		CommunityID: community.ID, UserID: users[0].ID, Role: models.MembershipRoleWaiting,
	})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)
}

func TestMembershipRepository_UpdateRoleGuard(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()
	users := createRepoTestUsers(t, db, 1)

	community := &models.Community{Name: "Test", Slug: "test"}
	require.NoError(t, db.Create(community).Error)
	require.NoError(t, repo.Create(ctx, &models.Membership{
		CommunityID: community.ID, UserID: users[0].ID, Role: models.MembershipRoleWaiting,
	}))

	// Approval transition succeeds once.
	updated, err := repo.UpdateRole(ctx, community.ID, users[0].ID,
		models.MembershipRoleWaiting, models.MembershipRoleMember)
	require.NoError(t, err)
	assert.True(t, updated)

	// A second approval finds no row in the expected state.
	updated, err = repo.UpdateRole(ctx, community.ID, users[0].ID,
		models.MembershipRoleWaiting, models.MembershipRoleMember)
	require.NoError(t, err)
	assert.False(t, updated)

	membership, err := repo.Get(ctx, community.ID, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipRoleMember, membership.Role)
}

// The admin count is part of the delete statement, so removing the last
// two admins one after the other can never succeed twice. This is the
// write-side guard behind the sole-admin rules.
func TestMembershipRepository_DeleteUnlessLastAdminGuard(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()
	users := createRepoTestUsers(t, db, 3)

	community := &models.Community{Name: "Test", Slug: "test"}
	require.NoError(t, db.Create(community).Error)

	roles := []models.MembershipRole{
		models.MembershipRoleAdmin,
		models.MembershipRoleAdmin,
		models.MembershipRoleMember,
	}
	for i, role := range roles {
		require.NoError(t, repo.Create(ctx, &models.Membership{
			CommunityID: community.ID, UserID: users[i].ID, Role: role,
		}))
	}

	// With two admins the first removal passes the guard.
	removed, err := repo.DeleteUnlessLastAdmin(ctx, community.ID, users[0].ID)
	require.NoError(t, err)
	assert.True(t, removed)

	// The remaining admin is refused.
	removed, err = repo.DeleteUnlessLastAdmin(ctx, community.ID, users[1].ID)
	require.NoError(t, err)
	assert.False(t, removed)

	membership, err := repo.Get(ctx, community.ID, users[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipRoleAdmin, membership.Role)

	// Plain members are not held back by the guard.
	removed, err = repo.DeleteUnlessLastAdmin(ctx, community.ID, users[2].ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestMembershipRepository_DemoteUnlessLastAdminGuard(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()
	users := createRepoTestUsers(t, db, 2)

	community := &models.Community{Name: "Test", Slug: "test"}
	require.NoError(t, db.Create(community).Error)
	for _, user := range users {
		require.NoError(t, repo.Create(ctx, &models.Membership{
			CommunityID: community.ID, UserID: user.ID, Role: models.MembershipRoleAdmin,
		}))
	}

	// Two admins demoting each other: only the first transition lands.
	updated, err := repo.DemoteUnlessLastAdmin(ctx, community.ID, users[0].ID)
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = repo.DemoteUnlessLastAdmin(ctx, community.ID, users[1].ID)
	require.NoError(t, err)
	assert.False(t, updated)

	membership, err := repo.Get(ctx, community.ID, users[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipRoleAdmin, membership.Role)

	// A non-admin row never matches the update.
	updated, err = repo.DemoteUnlessLastAdmin(ctx, community.ID, users[0].ID)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestCommunityRepository_CreateWithAdmin(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCommunityRepository(db)
	ctx := context.Background()
	users := createRepoTestUsers(t, db, 1)

	community := &models.Community{Name: "Atomic", Slug: "atomic"}
	require.NoError(t, repo.CreateWithAdmin(ctx, community, users[0].ID))

	var membership models.Membership
	require.NoError(t, db.Where("community_id = ? AND user_id = ?", community.ID, users[0].ID).
		First(&membership).Error)
	assert.Equal(t, models.MembershipRoleAdmin, membership.Role)

	// Slug collisions surface as conflicts.
	err := repo.CreateWithAdmin(ctx, &models.Community{Name: "Other", Slug: "atomic"}, users[0].ID)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)
}

func TestCommunityRepository_DeleteWithMemberships(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewCommunityRepository(db)
	membershipRepo := NewMembershipRepository(db)
	ctx := context.Background()
	users := createRepoTestUsers(t, db, 2)

	community := &models.Community{Name: "Doomed", Slug: "doomed"}
	require.NoError(t, repo.CreateWithAdmin(ctx, community, users[0].ID))
	require.NoError(t, membershipRepo.Create(ctx, &models.Membership{
		CommunityID: community.ID, UserID: users[1].ID, Role: models.MembershipRoleMember,
	}))
	require.NoError(t, db.Create(&models.Post{
		Title: "Last words", Content: "goodbye", CommunityID: &community.ID,
	}).Error)

	require.NoError(t, repo.DeleteWithMemberships(ctx, community.ID))

	var communities, memberships, posts int64
	require.NoError(t, db.Model(&models.Community{}).Count(&communities).Error)
	require.NoError(t, db.Model(&models.Membership{}).Count(&memberships).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Zero(t, communities)
	assert.Zero(t, memberships)
	assert.Zero(t, posts)

	// Deleting again reports the community as missing.
	err := repo.DeleteWithMemberships(ctx, community.ID)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
