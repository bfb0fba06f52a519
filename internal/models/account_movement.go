package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountMovement is an immutable ledger entry on a client's current account.
// Rows are only ever inserted, never updated or deleted.
//
// Sign convention: the client balance is the debt the client owes us.
// A sale posts a positive movement (debt grows), a payment posts a negative
// movement (debt shrinks). Balance carries the running balance after this entry.
type AccountMovement struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	TenantID     uint            `gorm:"not null;index" json:"tenant_id"`
	ClientID     uint            `gorm:"not null;index" json:"client_id"`
	PaymentID    *uint           `gorm:"index" json:"payment_id,omitempty"`
	MovementDate time.Time       `gorm:"not null;index" json:"movement_date"`
	Detail       string          `gorm:"not null" json:"detail"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Balance      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance"`
	MovementType string          `gorm:"not null;index" json:"movement_type"`
	UserID       uint            `gorm:"not null" json:"user_id"`
	CreatedAt    time.Time       `json:"created_at"`

	// Associations
	Client  *Client  `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Payment *Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
	User    User     `gorm:"foreignKey:UserID" json:"-"`
}

// Movement type constants
const (
	MovementTypeSale       = "sale"       // debit, debt grows
	MovementTypePayment    = "payment"    // credit, debt shrinks
	MovementTypeManual     = "manual"     // hand-entered adjustment
	MovementTypeAdjustment = "adjustment" // reversal or correction
)

// TableName specifies the table name for AccountMovement
func (AccountMovement) TableName() string {
	return "account_movements"
}

// AccountMovementResponse is the JSON response format for ledger entries
type AccountMovementResponse struct {
	ID           uint            `json:"id"`
	ClientID     uint            `json:"client_id"`
	PaymentID    *uint           `json:"payment_id,omitempty"`
	MovementDate time.Time       `json:"movement_date"`
	Detail       string          `json:"detail"`
	Amount       decimal.Decimal `json:"amount"`
	Balance      decimal.Decimal `json:"balance"`
	MovementType string          `json:"movement_type"`
	User         string          `json:"user,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToResponse converts AccountMovement to AccountMovementResponse
func (m *AccountMovement) ToResponse() AccountMovementResponse {
	resp := AccountMovementResponse{
		ID:           m.ID,
		ClientID:     m.ClientID,
		PaymentID:    m.PaymentID,
		MovementDate: m.MovementDate,
		Detail:       m.Detail,
		Amount:       m.Amount,
		Balance:      m.Balance,
		MovementType: m.MovementType,
		CreatedAt:    m.CreatedAt,
	}
	if m.User.ID != 0 {
		resp.User = m.User.FullName
	}
	return resp
}
