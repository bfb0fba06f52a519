package services

import (
	"context"
	"errors"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

// RuleService resolves and manages financial cost rules and the payment
// method catalog they key off.
type RuleService struct {
	repo         repository.RuleRepository
	treasuryRepo repository.TreasuryRepository
	auditSvc     *AuditService
}

// NewRuleService creates a new rule service
func NewRuleService(repo repository.RuleRepository, treasuryRepo repository.TreasuryRepository, auditSvc *AuditService) *RuleService {
	return &RuleService{repo: repo, treasuryRepo: treasuryRepo, auditSvc: auditSvc}
}

// Resolve maps (payment method, bank) to the applicable percentage.
// The bank-specific rule shadows the general one; no rule at all means zero
// cost. Resolution is deterministic: same inputs and rule set, same output.
func (s *RuleService) Resolve(ctx context.Context, tenantID, methodID uint, bankID *uint) (decimal.Decimal, error) {
	if bankID != nil {
		rule, err := s.repo.FindByMethodAndBank(ctx, tenantID, methodID, bankID)
		if err == nil {
			return rule.Percentage, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, NewStorageError("resolve rule", err)
		}
	}

	rule, err := s.repo.FindByMethodAndBank(ctx, tenantID, methodID, nil)
	if err == nil {
		return rule.Percentage, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	return decimal.Zero, NewStorageError("resolve rule", err)
}

// CreateRuleRequest carries the fields for creating or updating a rule
type CreateRuleRequest struct {
	PaymentMethodID uint                     `json:"payment_method_id" binding:"required"`
	BankID          *uint                    `json:"bank_id"`
	Percentage      decimal.Decimal          `json:"percentage"`
	Installments    []models.InstallmentTerm `json:"installments"`
}

// Create adds a rule, enforcing at most one rule per (method, bank) pair.
func (s *RuleService) Create(ctx context.Context, tenantID, userID uint, req CreateRuleRequest) (*models.FinancialCostRule, error) {
	if err := s.validate(ctx, tenantID, req); err != nil {
		return nil, err
	}

	// Uniqueness at write time: a duplicate (method, bank) pair is rejected
	// so resolution never has to tie-break.
	if _, err := s.repo.FindByMethodAndBank(ctx, tenantID, req.PaymentMethodID, req.BankID); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewStorageError("check duplicate rule", err)
	}

	rule := &models.FinancialCostRule{
		TenantID:        tenantID,
		PaymentMethodID: req.PaymentMethodID,
		BankID:          req.BankID,
		RuleKind:        models.RuleKindSimple,
		Percentage:      req.Percentage,
	}
	if len(req.Installments) > 0 {
		if err := rule.SetSchedule(req.Installments); err != nil {
			return nil, NewValidationError("installments", "esquema de cuotas inválido")
		}
	}

	// The unique index on (tenant, method, bank) arbitrates the race two
	// concurrent creates can win past the check above.
	if err := s.repo.Create(ctx, rule); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, NewStorageError("create rule", err)
	}

	s.auditSvc.Record(ctx, tenantID, userID, "CREATE", "FinancialCostRule", rule.ID, "")
	return rule, nil
}

// Update modifies a rule; moving it onto another (method, bank) pair that is
// already taken fails the same way Create does.
func (s *RuleService) Update(ctx context.Context, tenantID, userID, id uint, req CreateRuleRequest) (*models.FinancialCostRule, error) {
	rule, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("regla", id)
		}
		return nil, NewStorageError("find rule", err)
	}

	if err := s.validate(ctx, tenantID, req); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByMethodAndBank(ctx, tenantID, req.PaymentMethodID, req.BankID); err == nil {
		if existing.ID != rule.ID {
			return nil, ErrDuplicate
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewStorageError("check duplicate rule", err)
	}

	rule.PaymentMethodID = req.PaymentMethodID
	rule.BankID = req.BankID
	rule.Percentage = req.Percentage
	rule.RuleKind = models.RuleKindSimple
	rule.Installments = nil
	if len(req.Installments) > 0 {
		if err := rule.SetSchedule(req.Installments); err != nil {
			return nil, NewValidationError("installments", "esquema de cuotas inválido")
		}
	}

	if err := s.repo.Update(ctx, rule); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, NewStorageError("update rule", err)
	}

	s.auditSvc.Record(ctx, tenantID, userID, "UPDATE", "FinancialCostRule", rule.ID, "")
	return rule, nil
}

// Delete removes a rule
func (s *RuleService) Delete(ctx context.Context, tenantID, userID, id uint) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("regla", id)
		}
		return NewStorageError("find rule", err)
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return NewStorageError("delete rule", err)
	}
	s.auditSvc.Record(ctx, tenantID, userID, "DELETE", "FinancialCostRule", id, "")
	return nil
}

// List returns all rules for the tenant
func (s *RuleService) List(ctx context.Context, tenantID uint) ([]models.FinancialCostRule, error) {
	rules, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, NewStorageError("list rules", err)
	}
	return rules, nil
}

// CreateMethod adds a payment method type to the catalog
func (s *RuleService) CreateMethod(ctx context.Context, tenantID uint, name string) (*models.PaymentMethodType, error) {
	if name == "" {
		return nil, NewValidationError("name", "es requerido")
	}
	method := &models.PaymentMethodType{TenantID: tenantID, Name: name}
	if err := s.repo.CreateMethod(ctx, method); err != nil {
		return nil, NewStorageError("create payment method", err)
	}
	return method, nil
}

// ListMethods returns the payment method catalog
func (s *RuleService) ListMethods(ctx context.Context, tenantID uint) ([]models.PaymentMethodType, error) {
	methods, err := s.repo.ListMethods(ctx, tenantID)
	if err != nil {
		return nil, NewStorageError("list payment methods", err)
	}
	return methods, nil
}

func (s *RuleService) validate(ctx context.Context, tenantID uint, req CreateRuleRequest) error {
	if req.Percentage.IsNegative() || req.Percentage.GreaterThan(oneHundred) {
		return NewValidationError("percentage", "debe estar entre 0 y 100")
	}

	method, err := s.repo.FindMethodByID(ctx, tenantID, req.PaymentMethodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("método de pago", req.PaymentMethodID)
		}
		return NewStorageError("find payment method", err)
	}
	// Cash collections carry no financial cost, so a rule for them is a
	// configuration mistake
	if method.IsCash() {
		return NewValidationError("payment_method_id", "efectivo no lleva costo financiero")
	}

	if req.BankID != nil {
		if _, err := s.treasuryRepo.FindBankByID(ctx, tenantID, *req.BankID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("banco", *req.BankID)
			}
			return NewStorageError("find bank", err)
		}
	}

	for _, term := range req.Installments {
		if term.Installments < 1 {
			return NewValidationError("installments", "la cantidad de cuotas debe ser positiva")
		}
		if term.Percentage.IsNegative() || term.Percentage.GreaterThan(oneHundred) {
			return NewValidationError("installments", "porcentaje de cuota fuera de rango")
		}
	}

	return nil
}
