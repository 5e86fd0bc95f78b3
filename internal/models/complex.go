package models

import (
	"time"
)

// Complex represents a residential development composed of blocks
type Complex struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Address         string    `gorm:"not null" json:"address"`
	TotalBlocks     int       `gorm:"default:0" json:"total_blocks"`
	TotalApartments int       `gorm:"default:0" json:"total_apartments"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	Blocks []Block `gorm:"foreignKey:ComplexID" json:"blocks,omitempty"`
}

// TableName specifies the table name for Complex
func (Complex) TableName() string {
	return "complexes"
}

// ComplexResponse is the JSON response format for complexes
type ComplexResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	TotalBlocks     int       `json:"total_blocks"`
	TotalApartments int       `json:"total_apartments"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToResponse converts Complex to ComplexResponse
func (c *Complex) ToResponse() ComplexResponse {
	return ComplexResponse{
		ID:              c.ID,
		Name:            c.Name,
		Address:         c.Address,
		TotalBlocks:     c.TotalBlocks,
		TotalApartments: c.TotalApartments,
		CreatedAt:       c.CreatedAt,
	}
}
