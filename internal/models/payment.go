package models

import (
	"time"
)

// Payment represents a recorded transaction against a contract
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ContractID    uint      `gorm:"not null;index" json:"contract_id"`
	PaymentNumber string    `gorm:"size:50;uniqueIndex;not null" json:"payment_number"`
	Amount        float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate   time.Time `gorm:"type:date;not null;index" json:"payment_date"`
	PaymentType   string    `gorm:"default:monthly;not null" json:"payment_type"`
	Status        string    `gorm:"default:pending;not null;index" json:"status"`
	Notes         *string   `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	Contract Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment status constants
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

// Payment type constants
const (
	PaymentTypeInitial = "initial"
	PaymentTypeMonthly = "monthly"
	PaymentTypeOther   = "other"
)

// ValidPaymentType reports whether t is a known payment type
func ValidPaymentType(t string) bool {
	switch t {
	case PaymentTypeInitial, PaymentTypeMonthly, PaymentTypeOther:
		return true
	}
	return false
}

// MayComplete returns true if payment can transition to completed
func (p *Payment) MayComplete() bool {
	return p.Status == PaymentStatusPending
}

// MayRevert returns true if a completed payment can be reverted to pending
func (p *Payment) MayRevert() bool {
	return p.Status == PaymentStatusCompleted
}

// IsOverdue returns true if a pending payment is past its payment date
func (p *Payment) IsOverdue() bool {
	return p.Status == PaymentStatusPending && time.Now().After(p.PaymentDate)
}

// OverdueDays returns the number of days past the payment date
func (p *Payment) OverdueDays() int {
	if !p.IsOverdue() {
		return 0
	}
	return int(time.Since(p.PaymentDate).Hours() / 24)
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID            uint      `json:"id"`
	ContractID    uint      `json:"contract_id"`
	PaymentNumber string    `json:"payment_number"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentType   string    `json:"payment_type"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes"`
	OverdueDays   int       `json:"overdue_days"`
	CreatedAt     time.Time `json:"created_at"`

	// Contract details
	ContractNumber string `json:"contract_number,omitempty"`
	ClientName     string `json:"client_name,omitempty"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID,
		ContractID:    p.ContractID,
		PaymentNumber: p.PaymentNumber,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		PaymentType:   p.PaymentType,
		Status:        p.Status,
		Notes:         p.Notes,
		OverdueDays:   p.OverdueDays(),
		CreatedAt:     p.CreatedAt,
	}

	if p.Contract.ID != 0 {
		resp.ContractNumber = p.Contract.ContractNumber
		if p.Contract.Client.ID != 0 {
			resp.ClientName = p.Contract.Client.FullName
		}
	}

	return resp
}
