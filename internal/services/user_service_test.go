package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azizjun/kvartal-api/internal/models"
)

func TestUserService_Create_DefaultsToManager(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)

	user, err := svcs.User.Create(ctx, CreateUserInput{
		Email:    "new@test.loc",
		Password: "password123",
		FullName: "New Manager",
		Role:     "superuser", // unknown roles fall back to manager
	}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, user.Role)
	assert.Equal(t, models.StatusActive, user.Status)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)

	_, err := svcs.User.Create(ctx, CreateUserInput{
		Email:    "admin@test.loc",
		Password: "password123",
	}, admin.ID)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserService_Deactivate_LastAdminGuard(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)

	err := svcs.User.Deactivate(ctx, admin.ID, admin.ID)
	assert.Error(t, err)

	// With a second admin the first may go
	second := seedUser(t, db, "second@test.loc", models.RoleAdmin)
	require.NoError(t, svcs.User.Deactivate(ctx, admin.ID, second.ID))

	_, err = svcs.User.FindByID(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_Restore(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	manager := seedUser(t, db, "manager@test.loc", models.RoleManager)

	require.NoError(t, svcs.User.Deactivate(ctx, manager.ID, admin.ID))
	_, err := svcs.User.FindByID(ctx, manager.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svcs.User.Restore(ctx, manager.ID, admin.ID))
	restored, err := svcs.User.FindByID(ctx, manager.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive())
}
