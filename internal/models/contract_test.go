package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContract_PercentPaid(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		paid     float64
		expected float64
	}{
		{"zero total", 0, 100, 0},
		{"nothing paid", 100000, 0, 0},
		{"half paid", 100000, 50000, 50},
		{"fully paid", 100000, 100000, 100},
		{"overpaid clamps at 100", 100000, 120000, 100},
		{"negative clamps at 0", 100000, -5000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Contract{TotalAmount: tt.total, PaidAmount: tt.paid}
			assert.Equal(t, tt.expected, c.PercentPaid())
		})
	}
}

func TestContract_RemainingAmount(t *testing.T) {
	c := &Contract{TotalAmount: 100000, PaidAmount: 30000}
	assert.Equal(t, 70000.0, c.RemainingAmount())

	c.PaidAmount = 120000
	assert.Equal(t, 0.0, c.RemainingAmount())
}

func TestContract_HoldsApartment(t *testing.T) {
	holding := []string{ContractStatusPending, ContractStatusActive, ContractStatusCompleted}
	for _, status := range holding {
		c := &Contract{Status: status}
		assert.True(t, c.HoldsApartment(), status)
	}

	c := &Contract{Status: ContractStatusCancelled}
	assert.False(t, c.HoldsApartment())
}

func TestPayment_Overdue(t *testing.T) {
	pastDue := &Payment{
		Status:      PaymentStatusPending,
		PaymentDate: time.Now().AddDate(0, 0, -10),
	}
	assert.True(t, pastDue.IsOverdue())
	assert.Equal(t, 10, pastDue.OverdueDays())

	completed := &Payment{
		Status:      PaymentStatusCompleted,
		PaymentDate: time.Now().AddDate(0, 0, -10),
	}
	assert.False(t, completed.IsOverdue())
	assert.Zero(t, completed.OverdueDays())

	future := &Payment{
		Status:      PaymentStatusPending,
		PaymentDate: time.Now().AddDate(0, 0, 5),
	}
	assert.False(t, future.IsOverdue())
}
