package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azizjun/kvartal-api/internal/models"
)

func TestPaymentService_Create_CompletedSyncsPaidAmount(t *testing.T) {
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

	_, err = svcs.Payment.Create(ctx, CreatePaymentInput{
		ContractID:  contract.ID,
		Amount:      50000,
		PaymentDate: time.Now(),
		Completed:   true,
	}, admin.ID)
	require.NoError(t, err)

	var fresh models.Contract
	require.NoError(t, db.First(&fresh, contract.ID).Error)
	assert.Equal(t, 150000.0, fresh.PaidAmount)
}

func TestPaymentService_Create_PendingDoesNotTouchPaidAmount(t *testing.T) {
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

	payment, err := svcs.Payment.Create(ctx, CreatePaymentInput{
		ContractID:  contract.ID,
		Amount:      50000,
		PaymentDate: time.Now(),
	}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)

	var fresh models.Contract
	require.NoError(t, db.First(&fresh, contract.ID).Error)
	assert.Equal(t, 100000.0, fresh.PaidAmount)
}

func TestPaymentService_Complete_CapsAtContractTotal(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	admin := seedUser(t, db, "admin@test.loc", models.RoleAdmin)
	client := seedClient(t, db, "Aziz Karimov")
	apartment := seedApartment(t, db, "12", 500000)

	contract, err := svcs.Contract.Create(ctx, CreateContractInput{
		ClientID:       client.ID,
		ApartmentID:    apartment.ID,
		InitialPayment: 450000,
	}, admin.ID)
	require.NoError(t, err)

	payment, err := svcs.Payment.Create(ctx, CreatePaymentInput{
		ContractID:  contract.ID,
		Amount:      100000,
		PaymentDate: time.Now(),
	}, admin.ID)
	require.NoError(t, err)

	_, err = svcs.Payment.Complete(ctx, payment.ID, admin.ID)
	assert.ErrorIs(t, err, ErrPaymentExceedsTotal)

	// The payment stays pending and paid_amount is untouched
	var fresh models.Contract
	require.NoError(t, db.First(&fresh, contract.ID).Error)
	assert.Equal(t, 450000.0, fresh.PaidAmount)
}

func TestPaymentService_Complete_ThenRevert(t *testing.T) {
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

	payment, err := svcs.Payment.Create(ctx, CreatePaymentInput{
		ContractID:  contract.ID,
		Amount:      80000,
		PaymentDate: time.Now(),
	}, admin.ID)
	require.NoError(t, err)

	_, err = svcs.Payment.Complete(ctx, payment.ID, admin.ID)
	require.NoError(t, err)

	var fresh models.Contract
	require.NoError(t, db.First(&fresh, contract.ID).Error)
	assert.Equal(t, 80000.0, fresh.PaidAmount)

	_, err = svcs.Payment.Revert(ctx, payment.ID, admin.ID)
	require.NoError(t, err)

	require.NoError(t, db.First(&fresh, contract.ID).Error)
	assert.Equal(t, 0.0, fresh.PaidAmount)
}

func TestPaymentService_Revert_CompletedContractRejected(t *testing.T) {
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

	var initial models.Payment
	require.NoError(t, db.Where("contract_id = ?", contract.ID).First(&initial).Error)

	_, err = svcs.Contract.Complete(ctx, contract.ID, admin.ID)
	require.NoError(t, err)

	_, err = svcs.Payment.Revert(ctx, initial.ID, admin.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPaymentService_Delete_PendingOnly(t *testing.T) {
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

	var initial models.Payment
	require.NoError(t, db.Where("contract_id = ?", contract.ID).First(&initial).Error)
	assert.ErrorIs(t, svcs.Payment.Delete(ctx, initial.ID, admin.ID), ErrInvalidState)

	pending, err := svcs.Payment.Create(ctx, CreatePaymentInput{
		ContractID:  contract.ID,
		Amount:      50000,
		PaymentDate: time.Now(),
	}, admin.ID)
	require.NoError(t, err)
	assert.NoError(t, svcs.Payment.Delete(ctx, pending.ID, admin.ID))
}

func TestPaymentService_Create_CancelledContractRejected(t *testing.T) {
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

	_, err = svcs.Contract.Cancel(ctx, contract.ID, admin.ID)
	require.NoError(t, err)

	_, err = svcs.Payment.Create(ctx, CreatePaymentInput{
		ContractID:  contract.ID,
		Amount:      50000,
		PaymentDate: time.Now(),
	}, admin.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}
