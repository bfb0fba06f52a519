package models

import (
	"strings"
	"time"
)

// PaymentMethodType is a catalog entry for how a client can pay
// ("Efectivo", "Transferencia", "Cheque", "Tarjeta", ...).
type PaymentMethodType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"not null;index;uniqueIndex:idx_methods_tenant_name" json:"tenant_id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_methods_tenant_name" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for PaymentMethodType
func (PaymentMethodType) TableName() string {
	return "payment_method_types"
}

// Well-known method names. Matching is case-insensitive: the catalog is
// tenant-editable and "cheque"/"CHEQUE"/"Cheque" must all behave the same.
const (
	MethodNameEfectivo = "Efectivo"
	MethodNameCheque   = "Cheque"
)

// IsCash returns true for "Efectivo": no financial cost rule, no bank.
func (m *PaymentMethodType) IsCash() bool {
	return strings.EqualFold(m.Name, MethodNameEfectivo)
}

// RequiresCheque returns true when payments with this method must carry cheque data.
func (m *PaymentMethodType) RequiresCheque() bool {
	return strings.EqualFold(m.Name, MethodNameCheque)
}
