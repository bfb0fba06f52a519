package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the persisted record of one registration through the
// reconciliation engine. It is written inside the same transaction as the
// ledger movement and balance updates, so it doubles as the idempotency
// anchor: IdempotencyKey is unique per tenant and a replay returns the stored
// row instead of posting again.
type Payment struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	TenantID        uint            `gorm:"not null;index;uniqueIndex:idx_payments_tenant_idem" json:"tenant_id"`
	IdempotencyKey  string          `gorm:"not null;uniqueIndex:idx_payments_tenant_idem" json:"idempotency_key"`
	ReceiptNumber   string          `gorm:"not null;uniqueIndex" json:"receipt_number"`
	ClientID        uint            `gorm:"not null;index" json:"client_id"`
	SaleID          uint            `gorm:"not null;index" json:"sale_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	FinancialCost   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"financial_cost"`
	NetAmount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"net_amount"`
	PaymentMethodID uint            `gorm:"not null;index" json:"payment_method_id"`
	BankID          *uint           `gorm:"index" json:"bank_id,omitempty"`
	AccountID       uint            `gorm:"not null;index" json:"account_id"`
	CashRegisterID  *uint           `gorm:"index" json:"cash_register_id,omitempty"`
	ChequeID        *uint           `gorm:"index" json:"cheque_id,omitempty"`
	UserID          uint            `gorm:"not null" json:"user_id"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Associations
	Client        Client            `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Sale          Sale              `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
	PaymentMethod PaymentMethodType `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
	Cheque        *Cheque           `gorm:"foreignKey:ChequeID" json:"cheque,omitempty"`
	User          User              `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// PaymentResult is what the engine returns after a successful registration.
// RemainingBalance is the sale's pending balance after this payment.
type PaymentResult struct {
	PaymentID        uint            `json:"payment_id"`
	ReceiptNumber    string          `json:"receipt_number"`
	AmountCollected  decimal.Decimal `json:"amount_collected"`
	FinancialCost    decimal.Decimal `json:"financial_cost"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// ToResult converts a stored Payment back into the engine result, used when a
// replayed idempotency key short-circuits to the original outcome.
func (p *Payment) ToResult(remaining decimal.Decimal) PaymentResult {
	return PaymentResult{
		PaymentID:        p.ID,
		ReceiptNumber:    p.ReceiptNumber,
		AmountCollected:  p.Amount,
		FinancialCost:    p.FinancialCost,
		NetAmount:        p.NetAmount,
		RemainingBalance: remaining,
	}
}
