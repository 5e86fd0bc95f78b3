package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azizjun/kvartal-api/internal/models"
)

func TestApartmentService_ReserveAndRelease(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	apartment := seedApartment(t, db, "12", 500000)

	reserved, err := svcs.Apartment.Reserve(ctx, apartment.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApartmentStatusReserved, reserved.Status)

	// A reserved apartment cannot be reserved again
	_, err = svcs.Apartment.Reserve(ctx, apartment.ID, admin.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	released, err := svcs.Apartment.Release(ctx, apartment.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApartmentStatusAvailable, released.Status)
}

func TestApartmentService_Reserve_SoldApartment(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	_, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:    client.ID,
		ApartmentID: apartment.ID,
	}, admin.ID)
	require.NoError(t, err)

	_, err = svcs.Apartment.Reserve(ctx, apartment.ID, admin.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestApartmentService_Delete_GuardedByContracts(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:    client.ID,
		ApartmentID: apartment.ID,
	}, admin.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svcs.Apartment.Delete(ctx, apartment.ID, admin.ID), ErrHasContracts)

	require.NoError(t, svcs.Contract.Delete(ctx, contract.ID, admin.ID))
	assert.NoError(t, svcs.Apartment.Delete(ctx, apartment.ID, admin.ID))
}

func TestApartmentService_Update_StatusNotMutable(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	apartment := seedApartment(t, db, "12", 500000)

	newPrice := 550000.0
	updated, err := svcs.Apartment.Update(ctx, apartment.ID, UpdateApartmentInput{
		Price: &newPrice,
	}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 550000.0, updated.Price)
	assert.Equal(t, models.ApartmentStatusAvailable, updated.Status)
}

func TestComplexService_GenerateApartments(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)

	cplx := &models.Complex{Name: "Yangi Shahar", Address: "Amir Temur 1"}
	require.NoError(t, svcs.Complex.Create(ctx, cplx, admin.ID))

	block := &models.Block{ComplexID: &cplx.ID, Name: "B"}
	require.NoError(t, svcs.Complex.CreateBlock(ctx, block, admin.ID))

	apartments, err := svcs.Complex.GenerateApartments(ctx, block.ID, GenerateApartmentsInput{
		Floors:            4,
		ApartmentsPerUnit: 3,
		Area:              55,
		Rooms:             2,
		Price:             400000,
	}, admin.ID)
	require.NoError(t, err)
	assert.Len(t, apartments, 12)

	// Sequential numbering across floors
	assert.Equal(t, "1", apartments[0].ApartmentNumber)
	assert.Equal(t, "12", apartments[11].ApartmentNumber)
	assert.Equal(t, 4, apartments[11].Floor)

	var fresh models.Block
	require.NoError(t, db.First(&fresh, block.ID).Error)
	assert.Equal(t, 12, fresh.TotalApartments)
	assert.Equal(t, 0, fresh.OccupiedApartments)
}

func TestComplexService_DeleteBlock_NotEmpty(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	apartment := seedApartment(t, db, "12", 500000)

	assert.ErrorIs(t, svcs.Complex.DeleteBlock(ctx, apartment.BlockID, admin.ID), ErrBlockNotEmpty)

	require.NoError(t, svcs.Apartment.Delete(ctx, apartment.ID, admin.ID))
	assert.NoError(t, svcs.Complex.DeleteBlock(ctx, apartment.BlockID, admin.ID))
}
