package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale represents a point-of-sale transaction that a client still owes money on.
// PendingBalance = TotalAmount - sum of payments applied; it only moves through
// payment registration or an administrative edit, and never drops below zero.
// LockVersion guards the read-modify-write on PendingBalance: concurrent payment
// registrations against the same sale serialize on it, the loser gets a conflict.
type Sale struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	TenantID       uint            `gorm:"not null;index" json:"tenant_id"`
	ClientID       uint            `gorm:"not null;index" json:"client_id"`
	Description    string          `gorm:"not null" json:"description"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	PendingBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"pending_balance"`
	SaleDate       time.Time       `gorm:"type:date;not null;index" json:"sale_date"`
	LockVersion    int             `gorm:"default:0;not null" json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Associations
	Client Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName specifies the table name for Sale
func (Sale) TableName() string {
	return "sales"
}

// IsPending returns true if the sale still has an outstanding balance
func (s *Sale) IsPending() bool {
	return s.PendingBalance.IsPositive()
}

// AppliedAmount returns the total already collected against this sale
func (s *Sale) AppliedAmount() decimal.Decimal {
	return s.TotalAmount.Sub(s.PendingBalance)
}

// SaleResponse is the JSON response format for sales
type SaleResponse struct {
	ID             uint            `json:"id"`
	ClientID       uint            `json:"client_id"`
	ClientName     string          `json:"client_name,omitempty"`
	Description    string          `json:"description"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	SaleDate       time.Time       `json:"sale_date"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToResponse converts Sale to SaleResponse
func (s *Sale) ToResponse() SaleResponse {
	resp := SaleResponse{
		ID:             s.ID,
		ClientID:       s.ClientID,
		Description:    s.Description,
		TotalAmount:    s.TotalAmount,
		PendingBalance: s.PendingBalance,
		SaleDate:       s.SaleDate,
		CreatedAt:      s.CreatedAt,
	}
	if s.Client.ID != 0 {
		resp.ClientName = s.Client.Name
	}
	return resp
}
