package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azizjun/kvartal-api/internal/models"
)

func TestContractService_Create_MarksApartmentSold(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:       client.ID,
		ApartmentID:    apartment.ID,
		InitialPayment: 100000,
		MonthlyPayment: 20000,
	}, admin.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ContractStatusActive, contract.Status)
	assert.Equal(t, 500000.0, contract.TotalAmount) // defaults to apartment price
	assert.NotEmpty(t, contract.ContractNumber)

	var fresh models.Apartment
	require.NoError(t, db.First(&fresh, apartment.ID).Error)
	assert.Equal(t, models.ApartmentStatusSold, fresh.Status)

	// Initial payment is stored as a completed payment row
	var payments []models.Payment
	require.NoError(t, db.Where("contract_id = ?", contract.ID).Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentTypeInitial, payments[0].PaymentType)
	assert.Equal(t, models.PaymentStatusCompleted, payments[0].Status)
	assert.Equal(t, 100000.0, payments[0].Amount)
}

func TestContractService_Create_ApartmentAlreadySold(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	first := seedClient(t, db, "First Buyer")
	second := seedClient(t, db, "Second Buyer")
	apartment := seedApartment(t, db, "12", 500000)

	_, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:    first.ID,
		ApartmentID: apartment.ID,
	}, admin.ID)
	require.NoError(t, err)

	_, err = svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:    second.ID,
		ApartmentID: apartment.ID,
	}, admin.ID)
	assert.ErrorIs(t, err, ErrApartmentUnavailable)

	// The losing attempt must not leave a contract behind
	var count int64
	require.NoError(t, db.Model(&models.Contract{}).Where("client_id = ?", second.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestContractService_Create_InitialPaymentOverTotal(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	_, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:       client.ID,
		ApartmentID:    apartment.ID,
		TotalAmount:    400000,
		InitialPayment: 450000,
	}, admin.ID)
	assert.Error(t, err)
}

func TestContractService_Create_UnknownClient(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	apartment := seedApartment(t, db, "12", 500000)

	_, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:    9999,
		ApartmentID: apartment.ID,
	}, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContractService_Update_ApartmentImmutable(t *testing.T) {
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

	other := seedApartment(t, db, "13", 600000)
	_, err = svcs.Contract.Update(ctx, contract.ID, UpdateContractInput{
		ApartmentID: &other.ID,
	}, admin.ID)
	assert.ErrorIs(t, err, ErrApartmentImmutable)
}

func TestContractService_Update_TotalBelowPaid(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:       client.ID,
		ApartmentID:    apartment.ID,
		InitialPayment: 200000,
	}, admin.ID)
	require.NoError(t, err)

	lower := 150000.0
	_, err = svcs.Contract.Update(ctx, contract.ID, UpdateContractInput{
		TotalAmount: &lower,
	}, admin.ID)
	assert.Error(t, err)
}

func TestContractService_Delete_RestoresApartment(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:       client.ID,
		ApartmentID:    apartment.ID,
		InitialPayment: 100000,
	}, admin.ID)
	require.NoError(t, err)

	require.NoError(t, svcs.Contract.Delete(ctx, contract.ID, admin.ID))

	var fresh models.Apartment
	require.NoError(t, db.First(&fresh, apartment.ID).Error)
	assert.Equal(t, models.ApartmentStatusAvailable, fresh.Status)

	// Payments go with the contract
	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Where("contract_id = ?", contract.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestContractService_Cancel_ReleasesApartment(t *testing.T) {
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

	cancelled, err := svcs.Contract.Cancel(ctx, contract.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	var fresh models.Apartment
	require.NoError(t, db.First(&fresh, apartment.ID).Error)
	assert.Equal(t, models.ApartmentStatusAvailable, fresh.Status)

	// A cancelled contract stays cancelled
	_, err = svcs.Contract.Cancel(ctx, contract.ID, admin.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestContractService_Complete_RequiresFullPayment(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:       client.ID,
		ApartmentID:    apartment.ID,
		InitialPayment: 100000,
	}, admin.ID)
	require.NoError(t, err)

	// Not fully paid yet
	_, err = svcs.Contract.Complete(ctx, contract.ID, admin.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svcs.Payment.Create(ctx, CreatePaymentInput{
		ContractID:  contract.ID,
		Amount:      400000,
		PaymentDate: time.Now(),
		Completed:   true,
	}, admin.ID)
	require.NoError(t, err)

	completed, err := svcs.Contract.Complete(ctx, contract.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	_, err = svcs.Contract.Complete(ctx, contract.ID, admin.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestContractService_CompleteFullyPaid(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:       client.ID,
		ApartmentID:    apartment.ID,
		InitialPayment: 200000,
	}, admin.ID)
	require.NoError(t, err)

	// Pay off the rest
	_, err = svcs.Payment.Create(ctx, CreatePaymentInput{
		ContractID:  contract.ID,
		Amount:      300000,
		PaymentDate: time.Now(),
		Completed:   true,
	}, admin.ID)
	require.NoError(t, err)

	count, err := svcs.Contract.CompleteFullyPaid(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var fresh models.Contract
	require.NoError(t, db.First(&fresh, contract.ID).Error)
	assert.Equal(t, models.ContractStatusCompleted, fresh.Status)
}

func TestContractService_Create_EndBeforeStart(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	_, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:    client.ID,
		ApartmentID: apartment.ID,
		StartDate:   start,
		EndDate:     &end,
	}, admin.ID)
	assert.Error(t, err)

	// The failed attempt must not claim the apartment
	var fresh models.Apartment
	require.NoError(t, db.First(&fresh, apartment.ID).Error)
	assert.Equal(t, models.ApartmentStatusAvailable, fresh.Status)
}

func TestContractService_Create_PendingThenActivate(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:    client.ID,
		ApartmentID: apartment.ID,
		Status:      models.ContractStatusPending,
	}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusPending, contract.Status)

	// A pending contract still holds the apartment
	var fresh models.Apartment
	require.NoError(t, db.First(&fresh, apartment.ID).Error)
	assert.Equal(t, models.ApartmentStatusSold, fresh.Status)

	activated, err := svcs.Contract.Activate(ctx, contract.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusActive, activated.Status)
}

func TestContractService_Create_UnknownStatus(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	_, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:    client.ID,
		ApartmentID: apartment.ID,
		Status:      "suspended",
	}, admin.ID)
	assert.Error(t, err)
}

func TestContractService_Update_EndBeforeStart(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:    client.ID,
		ApartmentID: apartment.ID,
		StartDate:   start,
	}, admin.ID)
	require.NoError(t, err)

	before := start.AddDate(0, -2, 0)
	_, err = svcs.Contract.Update(ctx, contract.ID, UpdateContractInput{
		EndDate: &before,
	}, admin.ID)
	assert.Error(t, err)

	// Moving the start date past an existing end date is just as invalid
	end := start.AddDate(1, 0, 0)
	_, err = svcs.Contract.Update(ctx, contract.ID, UpdateContractInput{
		EndDate: &end,
	}, admin.ID)
	require.NoError(t, err)

	late := end.AddDate(0, 6, 0)
	_, err = svcs.Contract.Update(ctx, contract.ID, UpdateContractInput{
		StartDate: &late,
	}, admin.ID)
	assert.Error(t, err)
}

func TestContractService_Update_TotalMustBePositive(t *testing.T) {
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

	zero := 0.0
	_, err = svcs.Contract.Update(ctx, contract.ID, UpdateContractInput{
		TotalAmount: &zero,
	}, admin.ID)
	assert.Error(t, err)
}

func TestContractService_BlockOccupancyFollowsLifecycle(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	occupied := func() int {
		var block models.Block
		require.NoError(t, db.First(&block, apartment.BlockID).Error)
		return block.OccupiedApartments
	}

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:    client.ID,
		ApartmentID: apartment.ID,
	}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, occupied())

	_, err = svcs.Contract.Cancel(ctx, contract.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, occupied())

	contract, err = svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:    client.ID,
		ApartmentID: apartment.ID,
	}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, occupied())

	require.NoError(t, svcs.Contract.Delete(ctx, contract.ID, admin.ID))
	assert.Equal(t, 0, occupied())
}
