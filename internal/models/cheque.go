package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cheque tracks a paper payment instrument through its lifecycle. A cheque
// received as payment collateral is referenced by the resulting payment record
// but owned independently: voiding a sale does not touch the cheque.
type Cheque struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	TenantID     uint            `gorm:"not null;index;uniqueIndex:idx_cheques_tenant_number" json:"tenant_id"`
	Number       string          `gorm:"not null;uniqueIndex:idx_cheques_tenant_number" json:"number"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	BankID       uint            `gorm:"not null;index" json:"bank_id"`
	Issuer       string          `gorm:"not null" json:"issuer"`
	CUIT         string          `gorm:"column:cuit" json:"cuit"`
	DueDate      time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Recipient    *string         `json:"recipient"`
	ReceivedFrom *string         `json:"received_from"`
	Status       string          `gorm:"default:cargado;not null;index" json:"status"`
	Observations *string         `gorm:"type:text" json:"observations"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Associations
	Bank Bank `gorm:"foreignKey:BankID" json:"bank,omitempty"`
}

// TableName specifies the table name for Cheque
func (Cheque) TableName() string {
	return "cheques"
}

// Cheque status constants. Only CARGADO has outgoing transitions; the domain
// owner has not confirmed any path out of the other states, so they are
// treated as terminal.
const (
	ChequeStatusCargado   = "cargado"   // loaded, available as collateral
	ChequeStatusEntregado = "entregado" // endorsed to a third party
	ChequeStatusRechazado = "rechazado" // bounced
	ChequeStatusCobrado   = "cobrado"   // cashed
	ChequeStatusAnulado   = "anulado"   // voided
)

// IsAvailable returns true if the cheque can still back a payment
func (c *Cheque) IsAvailable() bool {
	return c.Status == ChequeStatusCargado
}

// MayDeliver returns true if the cheque can be endorsed to a third party
func (c *Cheque) MayDeliver() bool {
	return c.Status == ChequeStatusCargado
}

// MayReject returns true if the cheque can be marked as bounced
func (c *Cheque) MayReject() bool {
	return c.Status == ChequeStatusCargado
}

// MayCash returns true if the cheque can be marked as cashed
func (c *Cheque) MayCash() bool {
	return c.Status == ChequeStatusCargado
}

// MayVoid returns true if the cheque can be voided
func (c *Cheque) MayVoid() bool {
	return c.Status == ChequeStatusCargado
}

// IsDueSoon returns true if the cheque is still loaded and due within days
func (c *Cheque) IsDueSoon(days int) bool {
	if c.Status != ChequeStatusCargado {
		return false
	}
	limit := time.Now().AddDate(0, 0, days)
	return !c.DueDate.After(limit)
}

// ChequeResponse is the JSON response format for cheques
type ChequeResponse struct {
	ID           uint            `json:"id"`
	Number       string          `json:"number"`
	Amount       decimal.Decimal `json:"amount"`
	BankID       uint            `json:"bank_id"`
	Bank         string          `json:"bank,omitempty"`
	Issuer       string          `json:"issuer"`
	CUIT         string          `json:"cuit"`
	DueDate      time.Time       `json:"due_date"`
	Recipient    *string         `json:"recipient"`
	ReceivedFrom *string         `json:"received_from"`
	Status       string          `json:"status"`
	Observations *string         `json:"observations"`
	DueSoon      bool            `json:"due_soon"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToResponse converts Cheque to ChequeResponse
func (c *Cheque) ToResponse() ChequeResponse {
	resp := ChequeResponse{
		ID:           c.ID,
		Number:       c.Number,
		Amount:       c.Amount,
		BankID:       c.BankID,
		Issuer:       c.Issuer,
		CUIT:         c.CUIT,
		DueDate:      c.DueDate,
		Recipient:    c.Recipient,
		ReceivedFrom: c.ReceivedFrom,
		Status:       c.Status,
		Observations: c.Observations,
		DueSoon:      c.IsDueSoon(7),
		CreatedAt:    c.CreatedAt,
	}
	if c.Bank.ID != 0 {
		resp.Bank = c.Bank.Name
	}
	return resp
}
