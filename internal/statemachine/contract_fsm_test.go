package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/azizjun/kvartal-api/internal/models"
)

func TestContractFSM_ActivateFromPending(t *testing.T) {
	contract := &models.Contract{Status: models.ContractStatusPending}
	fsm := NewContractFSM(contract)

	assert.NoError(t, fsm.Activate(context.Background()))
	assert.Equal(t, models.ContractStatusActive, contract.Status)
}

func TestContractFSM_ActivateTwiceFails(t *testing.T) {
	contract := &models.Contract{Status: models.ContractStatusPending}
	fsm := NewContractFSM(contract)

	assert.NoError(t, fsm.Activate(context.Background()))
	assert.Error(t, fsm.Activate(context.Background()))
}

func TestContractFSM_CompleteRequiresFullPayment(t *testing.T) {
	contract := &models.Contract{
		Status:      models.ContractStatusActive,
		TotalAmount: 100000,
		PaidAmount:  50000,
	}
	fsm := NewContractFSM(contract)

	assert.Error(t, fsm.Complete(context.Background()))
	assert.Equal(t, models.ContractStatusActive, contract.Status)

	contract.PaidAmount = 100000
	fsm = NewContractFSM(contract)
	assert.NoError(t, fsm.Complete(context.Background()))
	assert.Equal(t, models.ContractStatusCompleted, contract.Status)
}

func TestContractFSM_CancelFromPendingAndActive(t *testing.T) {
	for _, status := range []string{models.ContractStatusPending, models.ContractStatusActive} {
		contract := &models.Contract{Status: status}
		fsm := NewContractFSM(contract)

		assert.NoError(t, fsm.Cancel(context.Background()))
		assert.Equal(t, models.ContractStatusCancelled, contract.Status)
	}
}

func TestContractFSM_TerminalStates(t *testing.T) {
	for _, status := range []string{models.ContractStatusCompleted, models.ContractStatusCancelled} {
		contract := &models.Contract{Status: status, TotalAmount: 1, PaidAmount: 1}
		fsm := NewContractFSM(contract)

		assert.Error(t, fsm.Activate(context.Background()))
		assert.Error(t, fsm.Cancel(context.Background()))
		assert.Equal(t, status, contract.Status)
	}
}
