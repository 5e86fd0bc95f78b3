package models

import (
	"time"
)

// Block represents a building within a complex
type Block struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ComplexID          *uint     `gorm:"index" json:"complex_id"`
	Name               string    `gorm:"not null" json:"name"`
	TotalApartments    int       `gorm:"default:0" json:"total_apartments"`
	OccupiedApartments int       `gorm:"default:0" json:"occupied_apartments"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Associations
	Complex    *Complex    `gorm:"foreignKey:ComplexID" json:"complex,omitempty"`
	Apartments []Apartment `gorm:"foreignKey:BlockID" json:"apartments,omitempty"`
}

// TableName specifies the table name for Block
func (Block) TableName() string {
	return "blocks"
}

// BlockResponse is the JSON response format for blocks
type BlockResponse struct {
	ID                 uint      `json:"id"`
	ComplexID          *uint     `json:"complex_id"`
	ComplexName        string    `json:"complex_name,omitempty"`
	Name               string    `json:"name"`
	TotalApartments    int       `json:"total_apartments"`
	OccupiedApartments int       `json:"occupied_apartments"`
	CreatedAt          time.Time `json:"created_at"`
}

// ToResponse converts Block to BlockResponse
func (b *Block) ToResponse() BlockResponse {
	resp := BlockResponse{
		ID:                 b.ID,
		ComplexID:          b.ComplexID,
		Name:               b.Name,
		TotalApartments:    b.TotalApartments,
		OccupiedApartments: b.OccupiedApartments,
		CreatedAt:          b.CreatedAt,
	}
	if b.Complex != nil {
		resp.ComplexName = b.Complex.Name
	}
	return resp
}
