package models

import (
	"time"
)

// Client represents a buyer
type Client struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FullName       string    `gorm:"not null" json:"full_name"`
	Phone          string    `gorm:"not null;index" json:"phone"`
	Email          *string   `json:"email"`
	PassportData   *string   `gorm:"type:text" json:"passport_data"`
	TelegramChatID *string   `json:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Contracts []Contract `gorm:"foreignKey:ClientID" json:"contracts,omitempty"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// ClientResponse is the JSON response format for clients
type ClientResponse struct {
	ID             uint      `json:"id"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone"`
	Email          *string   `json:"email"`
	PassportData   *string   `json:"passport_data"`
	TelegramChatID *string   `json:"telegram_chat_id"`
	ContractCount  int       `json:"contract_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToResponse converts Client to ClientResponse
func (c *Client) ToResponse() ClientResponse {
	return ClientResponse{
		ID:             c.ID,
		FullName:       c.FullName,
		Phone:          c.Phone,
		Email:          c.Email,
		PassportData:   c.PassportData,
		TelegramChatID: c.TelegramChatID,
		ContractCount:  len(c.Contracts),
		CreatedAt:      c.CreatedAt,
	}
}
