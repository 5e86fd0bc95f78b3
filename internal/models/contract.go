package models

import (
	"time"
)

// Contract represents a sale agreement linking one client to one apartment
type Contract struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ContractNumber string     `gorm:"size:50;uniqueIndex;not null" json:"contract_number"`
	ClientID       uint       `gorm:"not null;index" json:"client_id"`
	ApartmentID    uint       `gorm:"not null;index" json:"apartment_id"`
	CreatorID      *uint      `gorm:"index" json:"creator_id"`
	TotalAmount    float64    `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	InitialPayment float64    `gorm:"type:decimal(15,2);default:0" json:"initial_payment"`
	MonthlyPayment float64    `gorm:"type:decimal(15,2);default:0" json:"monthly_payment"`
	PaidAmount     float64    `gorm:"type:decimal(15,2);default:0" json:"paid_amount"`
	StartDate      time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate        *time.Time `gorm:"type:date" json:"end_date"`
	Status         string     `gorm:"default:active;index" json:"status"`
	Note           *string    `gorm:"type:text" json:"note"`
	CompletedAt    *time.Time `json:"completed_at"`
	CancelledAt    *time.Time `json:"cancelled_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Associations
	Client        Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Apartment     Apartment     `gorm:"foreignKey:ApartmentID" json:"apartment,omitempty"`
	Creator       *User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Payments      []Payment     `gorm:"foreignKey:ContractID" json:"payments,omitempty"`
	TechPassports []TechPassport `gorm:"foreignKey:ContractID" json:"tech_passports,omitempty"`
}

// TableName specifies the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// Contract status constants
const (
	ContractStatusPending   = "pending"
	ContractStatusActive    = "active"
	ContractStatusCompleted = "completed"
	ContractStatusCancelled = "cancelled"
)

// ValidContractStatus reports whether s is a known contract status
func ValidContractStatus(s string) bool {
	switch s {
	case ContractStatusPending, ContractStatusActive, ContractStatusCompleted, ContractStatusCancelled:
		return true
	}
	return false
}

// HoldsApartment returns true while the contract keeps its apartment off the market
func (c *Contract) HoldsApartment() bool {
	return c.Status == ContractStatusPending || c.Status == ContractStatusActive || c.Status == ContractStatusCompleted
}

// MayActivate returns true if contract can transition to active
func (c *Contract) MayActivate() bool {
	return c.Status == ContractStatusPending
}

// MayComplete returns true if contract can be completed
func (c *Contract) MayComplete() bool {
	return c.Status == ContractStatusActive && c.PaidAmount >= c.TotalAmount
}

// MayCancel returns true if contract can be cancelled
func (c *Contract) MayCancel() bool {
	return c.Status == ContractStatusPending || c.Status == ContractStatusActive
}

// RemainingAmount returns the unpaid part of the contract total
func (c *Contract) RemainingAmount() float64 {
	remaining := c.TotalAmount - c.PaidAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PercentPaid returns paid_amount as a share of total_amount, clamped to [0,100]
func (c *Contract) PercentPaid() float64 {
	if c.TotalAmount <= 0 {
		return 0
	}
	pct := c.PaidAmount / c.TotalAmount * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ContractResponse is the JSON response format for contracts
type ContractResponse struct {
	ID              uint              `json:"id"`
	ContractNumber  string            `json:"contract_number"`
	ClientID        uint              `json:"client_id"`
	ClientName      string            `json:"client_name,omitempty"`
	ClientPhone     string            `json:"client_phone,omitempty"`
	ApartmentID     uint              `json:"apartment_id"`
	ApartmentNumber string            `json:"apartment_number,omitempty"`
	BlockName       string            `json:"block_name,omitempty"`
	ComplexName     string            `json:"complex_name,omitempty"`
	CreatedBy       string            `json:"created_by,omitempty"`
	TotalAmount     float64           `json:"total_amount"`
	InitialPayment  float64           `json:"initial_payment"`
	MonthlyPayment  float64           `json:"monthly_payment"`
	PaidAmount      float64           `json:"paid_amount"`
	RemainingAmount float64           `json:"remaining_amount"`
	PercentPaid     float64           `json:"percent_paid"`
	StartDate       time.Time         `json:"start_date"`
	EndDate         *time.Time        `json:"end_date"`
	Status          string            `json:"status"`
	Note            *string           `json:"note"`
	CompletedAt     *time.Time        `json:"completed_at"`
	CancelledAt     *time.Time        `json:"cancelled_at"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Payments        []PaymentResponse `json:"payments,omitempty"`
}

// ToResponse converts Contract to ContractResponse
func (c *Contract) ToResponse() ContractResponse {
	resp := ContractResponse{
		ID:              c.ID,
		ContractNumber:  c.ContractNumber,
		ClientID:        c.ClientID,
		ApartmentID:     c.ApartmentID,
		TotalAmount:     c.TotalAmount,
		InitialPayment:  c.InitialPayment,
		MonthlyPayment:  c.MonthlyPayment,
		PaidAmount:      c.PaidAmount,
		RemainingAmount: c.RemainingAmount(),
		PercentPaid:     c.PercentPaid(),
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		Status:          c.Status,
		Note:            c.Note,
		CompletedAt:     c.CompletedAt,
		CancelledAt:     c.CancelledAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}

	if c.Client.ID != 0 {
		resp.ClientName = c.Client.FullName
		resp.ClientPhone = c.Client.Phone
	}

	if c.Apartment.ID != 0 {
		resp.ApartmentNumber = c.Apartment.ApartmentNumber
		if c.Apartment.Block.ID != 0 {
			resp.BlockName = c.Apartment.Block.Name
			if c.Apartment.Block.Complex != nil {
				resp.ComplexName = c.Apartment.Block.Complex.Name
			}
		}
	}

	if c.Creator != nil {
		resp.CreatedBy = c.Creator.FullName
	}

	for _, payment := range c.Payments {
		resp.Payments = append(resp.Payments, payment.ToResponse())
	}

	return resp
}
