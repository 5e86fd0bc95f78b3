package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/azizjun/kvartal-api/internal/models"
)

func TestPaymentFSM_CompleteAndRevert(t *testing.T) {
	payment := &models.Payment{Status: models.PaymentStatusPending}

	fsm := NewPaymentFSM(payment)
	assert.NoError(t, fsm.Complete(context.Background()))
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)

	fsm = NewPaymentFSM(payment)
	assert.NoError(t, fsm.Revert(context.Background()))
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
}

func TestPaymentFSM_CompleteTwiceFails(t *testing.T) {
	payment := &models.Payment{Status: models.PaymentStatusCompleted}
	fsm := NewPaymentFSM(payment)

	assert.Error(t, fsm.Complete(context.Background()))
}

func TestPaymentFSM_RevertPendingFails(t *testing.T) {
	payment := &models.Payment{Status: models.PaymentStatusPending}
	fsm := NewPaymentFSM(payment)

	assert.Error(t, fsm.Revert(context.Background()))
}
