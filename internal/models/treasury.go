package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bank is a financial institution cheques are drawn on and rules scope to.
type Bank struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"not null;index;uniqueIndex:idx_banks_tenant_name" json:"tenant_id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_banks_tenant_name" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Bank
func (Bank) TableName() string {
	return "banks"
}

// Account is a destination ledger for collected funds (a bank account).
// Balance is a running total maintained only by posted payment transactions.
type Account struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	TenantID  uint            `gorm:"not null;index" json:"tenant_id"`
	Name      string          `gorm:"not null" json:"name"`
	BankID    *uint           `gorm:"index" json:"bank_id,omitempty"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Associations
	Bank *Bank `gorm:"foreignKey:BankID" json:"bank,omitempty"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// CashRegister is a physical till. Like Account, its balance only moves
// inside the payment transaction.
type CashRegister struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	TenantID  uint            `gorm:"not null;index" json:"tenant_id"`
	Name      string          `gorm:"not null" json:"name"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for CashRegister
func (CashRegister) TableName() string {
	return "cash_registers"
}
