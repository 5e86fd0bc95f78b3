package models

import (
	"time"
)

// ApartmentLayout tracks construction approval gates for an apartment
type ApartmentLayout struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ApartmentID       uint      `gorm:"not null;uniqueIndex" json:"apartment_id"`
	BrickWorkApproved bool      `gorm:"default:false" json:"brick_work_approved"`
	BrickWorkNotes    *string   `gorm:"type:text" json:"brick_work_notes"`
	PlumbingApproved  bool      `gorm:"default:false" json:"plumbing_approved"`
	PlumbingNotes     *string   `gorm:"type:text" json:"plumbing_notes"`
	Status            string    `gorm:"default:brick_work;not null" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Associations
	Apartment Apartment `gorm:"foreignKey:ApartmentID" json:"apartment,omitempty"`
}

// TableName specifies the table name for ApartmentLayout
func (ApartmentLayout) TableName() string {
	return "apartment_layouts"
}

// Layout status constants. The sequence is advisory: staff may set any
// stage directly, there is no enforced transition order.
const (
	LayoutStatusBrickWork = "brick_work"
	LayoutStatusPlumbing  = "plumbing"
	LayoutStatusCompleted = "completed"
)

// ValidLayoutStatus reports whether s is a known layout stage
func ValidLayoutStatus(s string) bool {
	switch s {
	case LayoutStatusBrickWork, LayoutStatusPlumbing, LayoutStatusCompleted:
		return true
	}
	return false
}

// LayoutResponse is the JSON response format for apartment layouts
type LayoutResponse struct {
	ID                uint    `json:"id"`
	ApartmentID       uint    `json:"apartment_id"`
	ApartmentNumber   string  `json:"apartment_number,omitempty"`
	BlockName         string  `json:"block_name,omitempty"`
	BrickWorkApproved bool    `json:"brick_work_approved"`
	BrickWorkNotes    *string `json:"brick_work_notes"`
	PlumbingApproved  bool    `json:"plumbing_approved"`
	PlumbingNotes     *string `json:"plumbing_notes"`
	Status            string  `json:"status"`
}

// ToResponse converts ApartmentLayout to LayoutResponse
func (l *ApartmentLayout) ToResponse() LayoutResponse {
	resp := LayoutResponse{
		ID:                l.ID,
		ApartmentID:       l.ApartmentID,
		BrickWorkApproved: l.BrickWorkApproved,
		BrickWorkNotes:    l.BrickWorkNotes,
		PlumbingApproved:  l.PlumbingApproved,
		PlumbingNotes:     l.PlumbingNotes,
		Status:            l.Status,
	}
	if l.Apartment.ID != 0 {
		resp.ApartmentNumber = l.Apartment.ApartmentNumber
		if l.Apartment.Block.ID != 0 {
			resp.BlockName = l.Apartment.Block.Name
		}
	}
	return resp
}
