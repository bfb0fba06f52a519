package repository

import (
	"context"

	"github.com/induso/cobranzas-api/internal/models"

	"gorm.io/gorm"
)

// RuleRepository defines the interface for financial cost rule data access
type RuleRepository interface {
	FindByID(ctx context.Context, tenantID, id uint) (*models.FinancialCostRule, error)
	// FindByMethodAndBank returns the rule scoped to the exact bank. bankID nil
	// looks up the general rule.
	FindByMethodAndBank(ctx context.Context, tenantID, methodID uint, bankID *uint) (*models.FinancialCostRule, error)
	Create(ctx context.Context, rule *models.FinancialCostRule) error
	Update(ctx context.Context, rule *models.FinancialCostRule) error
	Delete(ctx context.Context, tenantID, id uint) error
	List(ctx context.Context, tenantID uint) ([]models.FinancialCostRule, error)

	// Payment method catalog lives alongside the rules that key off it.
	FindMethodByID(ctx context.Context, tenantID, id uint) (*models.PaymentMethodType, error)
	CreateMethod(ctx context.Context, method *models.PaymentMethodType) error
	ListMethods(ctx context.Context, tenantID uint) ([]models.PaymentMethodType, error)
}

type ruleRepository struct {
	db *gorm.DB
}

// NewRuleRepository creates a new financial cost rule repository
func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) FindByID(ctx context.Context, tenantID, id uint) (*models.FinancialCostRule, error) {
	var rule models.FinancialCostRule
	err := r.db.WithContext(ctx).
		Preload("PaymentMethod").
		Preload("Bank").
		Where("tenant_id = ?", tenantID).
		First(&rule, id).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepository) FindByMethodAndBank(ctx context.Context, tenantID, methodID uint, bankID *uint) (*models.FinancialCostRule, error) {
	var rule models.FinancialCostRule
	db := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payment_method_id = ?", tenantID, methodID)
	if bankID == nil {
		db = db.Where("bank_id IS NULL")
	} else {
		db = db.Where("bank_id = ?", *bankID)
	}
	if err := db.First(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepository) Create(ctx context.Context, rule *models.FinancialCostRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *ruleRepository) Update(ctx context.Context, rule *models.FinancialCostRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *ruleRepository) Delete(ctx context.Context, tenantID, id uint) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.FinancialCostRule{}, id).Error
}

func (r *ruleRepository) List(ctx context.Context, tenantID uint) ([]models.FinancialCostRule, error) {
	var rules []models.FinancialCostRule
	err := r.db.WithContext(ctx).
		Preload("PaymentMethod").
		Preload("Bank").
		Where("tenant_id = ?", tenantID).
		Order("payment_method_id ASC, bank_id ASC NULLS FIRST").
		Find(&rules).Error
	return rules, err
}

func (r *ruleRepository) FindMethodByID(ctx context.Context, tenantID, id uint) (*models.PaymentMethodType, error) {
	var method models.PaymentMethodType
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&method, id).Error
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *ruleRepository) CreateMethod(ctx context.Context, method *models.PaymentMethodType) error {
	return r.db.WithContext(ctx).Create(method).Error
}

func (r *ruleRepository) ListMethods(ctx context.Context, tenantID uint) ([]models.PaymentMethodType, error) {
	var methods []models.PaymentMethodType
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&methods).Error
	return methods, err
}
