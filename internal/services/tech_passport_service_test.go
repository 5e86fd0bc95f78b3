package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azizjun/kvartal-api/internal/models"
)

func TestTechPassportService_Create_RequiresCompletedContract(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:       client.ID,
		ApartmentID:    apartment.ID,
		InitialPayment: 500000,
	}, admin.ID)
	require.NoError(t, err)

	// Active contract: no passport yet
	_, err = svcs.TechPassport.Create(ctx, contract.ID, nil, admin.ID)
	assert.ErrorIs(t, err, ErrContractNotCompleted)

	_, err = svcs.Contract.Complete(ctx, contract.ID, admin.ID)
	require.NoError(t, err)

	passport, err := svcs.TechPassport.Create(ctx, contract.ID, nil, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TechPassportStatusAtNotary, passport.Status)
	assert.Equal(t, client.ID, passport.ClientID)

	// One passport per contract
	_, err = svcs.TechPassport.Create(ctx, contract.ID, nil, admin.ID)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTechPassportService_UpdateStatus_FreeMovement(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:       client.ID,
		ApartmentID:    apartment.ID,
		InitialPayment: 500000,
	}, admin.ID)
	require.NoError(t, err)
	_, err = svcs.Contract.Complete(ctx, contract.ID, admin.ID)
	require.NoError(t, err)

	passport, err := svcs.TechPassport.Create(ctx, contract.ID, nil, admin.ID)
	require.NoError(t, err)

	// Stations are not ordered: jumping ahead and bouncing back are both fine
	passport, err = svcs.TechPassport.UpdateStatus(ctx, passport.ID, models.TechPassportStatusReady, nil, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TechPassportStatusReady, passport.Status)

	passport, err = svcs.TechPassport.UpdateStatus(ctx, passport.ID, models.TechPassportStatusAtMBTI, strPtr("missing stamp"), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TechPassportStatusAtMBTI, passport.Status)
	require.NotNil(t, passport.Notes)
	assert.Equal(t, "missing stamp", *passport.Notes)
}

func TestTechPassportService_UpdateStatus_UnknownStation(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:       client.ID,
		ApartmentID:    apartment.ID,
		InitialPayment: 500000,
	}, admin.ID)
	require.NoError(t, err)
	_, err = svcs.Contract.Complete(ctx, contract.ID, admin.ID)
	require.NoError(t, err)

	passport, err := svcs.TechPassport.Create(ctx, contract.ID, nil, admin.ID)
	require.NoError(t, err)

	_, err = svcs.TechPassport.UpdateStatus(ctx, passport.ID, "lost", nil, admin.ID)
	assert.Error(t, err)
}

func TestTechPassportService_Delete(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:       client.ID,
		ApartmentID:    apartment.ID,
		InitialPayment: 500000,
	}, admin.ID)
	require.NoError(t, err)
	_, err = svcs.Contract.Complete(ctx, contract.ID, admin.ID)
	require.NoError(t, err)

	passport, err := svcs.TechPassport.Create(ctx, contract.ID, nil, admin.ID)
	require.NoError(t, err)

	require.NoError(t, svcs.TechPassport.Delete(ctx, passport.ID, admin.ID))
	_, err = svcs.TechPassport.FindByID(ctx, passport.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
