package models

import (
	"time"
)

// Apartment represents a sellable unit within a block
type Apartment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BlockID         uint      `gorm:"not null;index;uniqueIndex:idx_apartments_block_number" json:"block_id"`
	ApartmentNumber string    `gorm:"not null;uniqueIndex:idx_apartments_block_number" json:"apartment_number"`
	Floor           int       `json:"floor"`
	Area            float64   `gorm:"type:decimal(10,2)" json:"area"`
	Rooms           int       `json:"rooms"`
	Price           float64   `gorm:"type:decimal(15,2)" json:"price"`
	Status          string    `gorm:"default:available;index" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	Block     Block            `gorm:"foreignKey:BlockID" json:"block,omitempty"`
	Contracts []Contract       `gorm:"foreignKey:ApartmentID" json:"contracts,omitempty"`
	Layout    *ApartmentLayout `gorm:"foreignKey:ApartmentID" json:"layout,omitempty"`
}

// TableName specifies the table name for Apartment
func (Apartment) TableName() string {
	return "apartments"
}

// Apartment status constants
const (
	ApartmentStatusAvailable = "available"
	ApartmentStatusReserved  = "reserved"
	ApartmentStatusSold      = "sold"
)

// IsAvailable returns true if the apartment can be placed under contract
func (a *Apartment) IsAvailable() bool {
	return a.Status == ApartmentStatusAvailable
}

// ApartmentResponse is the JSON response format for apartments
type ApartmentResponse struct {
	ID              uint    `json:"id"`
	BlockID         uint    `json:"block_id"`
	BlockName       string  `json:"block_name,omitempty"`
	ComplexName     string  `json:"complex_name,omitempty"`
	ApartmentNumber string  `json:"apartment_number"`
	Floor           int     `json:"floor"`
	Area            float64 `json:"area"`
	Rooms           int     `json:"rooms"`
	Price           float64 `json:"price"`
	Status          string  `json:"status"`
}

// ToResponse converts Apartment to ApartmentResponse
func (a *Apartment) ToResponse() ApartmentResponse {
	resp := ApartmentResponse{
		ID:              a.ID,
		BlockID:         a.BlockID,
		ApartmentNumber: a.ApartmentNumber,
		Floor:           a.Floor,
		Area:            a.Area,
		Rooms:           a.Rooms,
		Price:           a.Price,
		Status:          a.Status,
	}
	if a.Block.ID != 0 {
		resp.BlockName = a.Block.Name
		if a.Block.Complex != nil {
			resp.ComplexName = a.Block.Complex.Name
		}
	}
	return resp
}
