package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/repository"
)

func TestGenerateContractStatement(t *testing.T) {
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

	buf, filename, err := svcs.Report.GenerateContractStatement(ctx, contract.ID)
	require.NoError(t, err)
	assert.Contains(t, filename, contract.ContractNumber)

	// Valid PDFs start with the magic header
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}

func TestGenerateContractStatement_NotFound(t *testing.T) {
	svcs, _ := setupTestServices(t)

	_, _, err := svcs.Report.GenerateContractStatement(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateOverduePaymentsReport(t *testing.T) {
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

	// A pending payment ten days past due
	_, err = svcs.Payment.Create(ctx, CreatePaymentInput{
		ContractID:  contract.ID,
		Amount:      50000,
		PaymentDate: time.Now().AddDate(0, 0, -10),
	}, admin.ID)
	require.NoError(t, err)

	buf, filename, err := svcs.Report.GenerateOverduePaymentsReport(ctx)
	require.NoError(t, err)
	assert.Contains(t, filename, "overdue")
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestExportContractsXLSX(t *testing.T) {
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

	data, filename, err := svcs.Export.ExportContractsXLSX(ctx, &repository.ContractQuery{
		ListQuery: repository.NewListQuery(),
	})
	require.NoError(t, err)
	assert.Contains(t, filename, ".xlsx")

	// XLSX files are zip archives
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestExportDashboardCSV(t *testing.T) {
	svcs, db := setupTestServices(t)
	ctx := context.Background()

	seedApartment(t, db, "12", 500000)

	data, filename, err := svcs.Export.ExportDashboardCSV(ctx)
	require.NoError(t, err)
	assert.Contains(t, filename, ".csv")
	assert.NotEmpty(t, data)
}
