package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azizjun/kvartal-api/internal/models"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestLayoutService_GetOrCreate(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, db, "12", 500000)

	layout, err := svcs.Layout.GetOrCreateForApartment(ctx, apartment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LayoutStatusBrickWork, layout.Status)
	assert.False(t, layout.BrickWorkApproved)
	assert.False(t, layout.PlumbingApproved)

	// Second call returns the same record
	again, err := svcs.Layout.GetOrCreateForApartment(ctx, apartment.ID)
	require.NoError(t, err)
	assert.Equal(t, layout.ID, again.ID)
}

func TestLayoutService_GetOrCreate_UnknownApartment(t *testing.T) {
	svcs, _ := setupTestServices(t)

	_, err := svcs.Layout.GetOrCreateForApartment(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLayoutService_UpdateApproval_Idempotent(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	apartment := seedApartment(t, db, "12", 500000)

	layout, err := svcs.Layout.UpdateApproval(ctx, apartment.ID, ApprovalInput{
		BrickWorkApproved: boolPtr(true),
		BrickWorkNotes:    strPtr("walls done"),
	}, admin.ID)
	require.NoError(t, err)
	assert.True(t, layout.BrickWorkApproved)
	assert.Equal(t, models.LayoutStatusBrickWork, layout.Status)

	// Repeating the same update changes nothing
	layout, err = svcs.Layout.UpdateApproval(ctx, apartment.ID, ApprovalInput{
		BrickWorkApproved: boolPtr(true),
	}, admin.ID)
	require.NoError(t, err)
	assert.True(t, layout.BrickWorkApproved)
	require.NotNil(t, layout.BrickWorkNotes)
	assert.Equal(t, "walls done", *layout.BrickWorkNotes)
}

func TestLayoutService_UpdateApproval_BothGatesComplete(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	apartment := seedApartment(t, db, "12", 500000)

	layout, err := svcs.Layout.UpdateApproval(ctx, apartment.ID, ApprovalInput{
		BrickWorkApproved: boolPtr(true),
		PlumbingApproved:  boolPtr(true),
	}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LayoutStatusCompleted, layout.Status)
}

func TestLayoutService_UpdateApproval_ExplicitStatusWins(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	apartment := seedApartment(t, db, "12", 500000)

	layout, err := svcs.Layout.UpdateApproval(ctx, apartment.ID, ApprovalInput{
		BrickWorkApproved: boolPtr(true),
		PlumbingApproved:  boolPtr(true),
		Status:            strPtr(models.LayoutStatusPlumbing),
	}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LayoutStatusPlumbing, layout.Status)
}

func TestLayoutService_UpdateApproval_UnknownStatus(t *testing.T) {
	svcs, db := setupTestServices(t)

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	apartment := seedApartment(t, db, "12", 500000)

	_, err := svcs.Layout.UpdateApproval(context.Background(), apartment.ID, ApprovalInput{
		Status: strPtr("demolished"),
	}, admin.ID)
	assert.Error(t, err)
}

func TestLayoutService_NotesLastWriteWins(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	apartment := seedApartment(t, db, "12", 500000)

	_, err := svcs.Layout.UpdateApproval(ctx, apartment.ID, ApprovalInput{
		PlumbingNotes: strPtr("first pass"),
	}, admin.ID)
	require.NoError(t, err)

	layout, err := svcs.Layout.UpdateApproval(ctx, apartment.ID, ApprovalInput{
		PlumbingNotes: strPtr("second pass"),
	}, admin.ID)
	require.NoError(t, err)
	require.NotNil(t, layout.PlumbingNotes)
	assert.Equal(t, "second pass", *layout.PlumbingNotes)
}
