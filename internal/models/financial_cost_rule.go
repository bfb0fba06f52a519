package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// FinancialCostRule maps (payment method, bank) to the percentage the business
// loses when collecting through that channel. BankID nil means the rule is the
// general fallback for the method; a bank-specific rule shadows it.
// At most one rule may exist per (tenant, method, bank) pair.
type FinancialCostRule struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	TenantID        uint            `gorm:"not null;index" json:"tenant_id"`
	PaymentMethodID uint            `gorm:"not null;index" json:"payment_method_id"`
	BankID          *uint           `gorm:"index" json:"bank_id,omitempty"`
	RuleKind        string          `gorm:"default:simple;not null" json:"rule_kind"`
	Percentage      decimal.Decimal `gorm:"type:decimal(6,3);not null" json:"percentage"`
	// Installments holds the schedule for card-style rules as JSON; empty for
	// simple percentage rules.
	Installments []byte    `gorm:"type:jsonb" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	PaymentMethod PaymentMethodType `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
	Bank          *Bank             `gorm:"foreignKey:BankID" json:"bank,omitempty"`
}

// Rule kind constants. A simple rule is a flat percentage; an installments
// rule carries a schedule of per-installment-count percentages.
const (
	RuleKindSimple       = "simple"
	RuleKindInstallments = "installments"
)

// InstallmentTerm is one entry of an installments-rule schedule
type InstallmentTerm struct {
	Installments int             `json:"installments"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// TableName specifies the table name for FinancialCostRule
func (FinancialCostRule) TableName() string {
	return "financial_cost_rules"
}

// IsGeneral returns true when the rule applies to the method regardless of bank
func (r *FinancialCostRule) IsGeneral() bool {
	return r.BankID == nil
}

// Schedule decodes the installment schedule; nil for simple rules.
func (r *FinancialCostRule) Schedule() ([]InstallmentTerm, error) {
	if r.RuleKind != RuleKindInstallments || len(r.Installments) == 0 {
		return nil, nil
	}
	var terms []InstallmentTerm
	if err := json.Unmarshal(r.Installments, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// SetSchedule encodes the installment schedule and flips the rule kind.
func (r *FinancialCostRule) SetSchedule(terms []InstallmentTerm) error {
	raw, err := json.Marshal(terms)
	if err != nil {
		return err
	}
	r.RuleKind = RuleKindInstallments
	r.Installments = raw
	return nil
}

// FinancialCostRuleResponse is the JSON response format for rules
type FinancialCostRuleResponse struct {
	ID              uint              `json:"id"`
	PaymentMethodID uint              `json:"payment_method_id"`
	PaymentMethod   string            `json:"payment_method,omitempty"`
	BankID          *uint             `json:"bank_id,omitempty"`
	Bank            string            `json:"bank,omitempty"`
	Scope           string            `json:"scope"`
	RuleKind        string            `json:"rule_kind"`
	Percentage      decimal.Decimal   `json:"percentage"`
	Installments    []InstallmentTerm `json:"installments,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ToResponse converts FinancialCostRule to FinancialCostRuleResponse
func (r *FinancialCostRule) ToResponse() FinancialCostRuleResponse {
	resp := FinancialCostRuleResponse{
		ID:              r.ID,
		PaymentMethodID: r.PaymentMethodID,
		BankID:          r.BankID,
		RuleKind:        r.RuleKind,
		Percentage:      r.Percentage,
		CreatedAt:       r.CreatedAt,
	}
	resp.Scope = "bank"
	if r.IsGeneral() {
		resp.Scope = "general"
	}
	if r.PaymentMethod.ID != 0 {
		resp.PaymentMethod = r.PaymentMethod.Name
	}
	if r.Bank != nil && r.Bank.ID != 0 {
		resp.Bank = r.Bank.Name
	}
	if terms, err := r.Schedule(); err == nil {
		resp.Installments = terms
	}
	return resp
}
