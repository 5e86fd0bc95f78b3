package models

import (
	"time"
)

// TechPassport tracks the registration document workflow for a completed contract
type TechPassport struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContractID uint      `gorm:"not null;index" json:"contract_id"`
	ClientID   uint      `gorm:"not null;index" json:"client_id"`
	Status     string    `gorm:"default:at_notary;not null" json:"status"`
	Notes      *string   `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Contract Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	Client   Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName specifies the table name for TechPassport
func (TechPassport) TableName() string {
	return "tech_passports"
}

// Tech passport status constants. Documents move between external offices
// in no fixed order, so any stage may be set from any other.
const (
	TechPassportStatusAtNotary     = "at_notary"
	TechPassportStatusAtMBTI       = "at_mbti"
	TechPassportStatusForSignature = "for_signature"
	TechPassportStatusAtJU         = "at_ju"
	TechPassportStatusReady        = "ready"
)

// ValidTechPassportStatus reports whether s is a known passport stage
func ValidTechPassportStatus(s string) bool {
	switch s {
	case TechPassportStatusAtNotary, TechPassportStatusAtMBTI,
		TechPassportStatusForSignature, TechPassportStatusAtJU, TechPassportStatusReady:
		return true
	}
	return false
}

// TechPassportResponse is the JSON response format for tech passports
type TechPassportResponse struct {
	ID             uint      `json:"id"`
	ContractID     uint      `json:"contract_id"`
	ContractNumber string    `json:"contract_number,omitempty"`
	ClientID       uint      `json:"client_id"`
	ClientName     string    `json:"client_name,omitempty"`
	Status         string    `json:"status"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToResponse converts TechPassport to TechPassportResponse
func (t *TechPassport) ToResponse() TechPassportResponse {
	resp := TechPassportResponse{
		ID:         t.ID,
		ContractID: t.ContractID,
		ClientID:   t.ClientID,
		Status:     t.Status,
		Notes:      t.Notes,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
	if t.Contract.ID != 0 {
		resp.ContractNumber = t.Contract.ContractNumber
	}
	if t.Client.ID != 0 {
		resp.ClientName = t.Client.FullName
	}
	return resp
}
