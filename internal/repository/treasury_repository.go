package repository

import (
	"context"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// TreasuryRepository defines the interface for banks, accounts and cash
// registers. Balance mutation only happens through Credit* inside the payment
// transaction.
type TreasuryRepository interface {
	FindBankByID(ctx context.Context, tenantID, id uint) (*models.Bank, error)
	CreateBank(ctx context.Context, bank *models.Bank) error
	ListBanks(ctx context.Context, tenantID uint) ([]models.Bank, error)

	FindAccountByID(ctx context.Context, tenantID, id uint) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	ListAccounts(ctx context.Context, tenantID uint) ([]models.Account, error)
	CreditAccount(ctx context.Context, tx *gorm.DB, tenantID, id uint, amount decimal.Decimal) error

	FindCashRegisterByID(ctx context.Context, tenantID, id uint) (*models.CashRegister, error)
	CreateCashRegister(ctx context.Context, register *models.CashRegister) error
	ListCashRegisters(ctx context.Context, tenantID uint) ([]models.CashRegister, error)
	CreditCashRegister(ctx context.Context, tx *gorm.DB, tenantID, id uint, amount decimal.Decimal) error
}

type treasuryRepository struct {
	db *gorm.DB
}

// NewTreasuryRepository creates a new treasury repository
func NewTreasuryRepository(db *gorm.DB) TreasuryRepository {
	return &treasuryRepository{db: db}
}

func (r *treasuryRepository) FindBankByID(ctx context.Context, tenantID, id uint) (*models.Bank, error) {
	var bank models.Bank
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&bank, id).Error
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *treasuryRepository) CreateBank(ctx context.Context, bank *models.Bank) error {
	return r.db.WithContext(ctx).Create(bank).Error
}

func (r *treasuryRepository) ListBanks(ctx context.Context, tenantID uint) ([]models.Bank, error) {
	var banks []models.Bank
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&banks).Error
	return banks, err
}

func (r *treasuryRepository) FindAccountByID(ctx context.Context, tenantID, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Preload("Bank").
		Where("tenant_id = ?", tenantID).
		First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *treasuryRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *treasuryRepository) ListAccounts(ctx context.Context, tenantID uint) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Preload("Bank").
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&accounts).Error
	return accounts, err
}

func (r *treasuryRepository) CreditAccount(ctx context.Context, tx *gorm.DB, tenantID, id uint, amount decimal.Decimal) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).
		Model(&models.Account{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}

func (r *treasuryRepository) FindCashRegisterByID(ctx context.Context, tenantID, id uint) (*models.CashRegister, error) {
	var register models.CashRegister
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&register, id).Error
	if err != nil {
		return nil, err
	}
	return &register, nil
}

func (r *treasuryRepository) CreateCashRegister(ctx context.Context, register *models.CashRegister) error {
	return r.db.WithContext(ctx).Create(register).Error
}

func (r *treasuryRepository) ListCashRegisters(ctx context.Context, tenantID uint) ([]models.CashRegister, error) {
	var registers []models.CashRegister
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&registers).Error
	return registers, err
}

func (r *treasuryRepository) CreditCashRegister(ctx context.Context, tx *gorm.DB, tenantID, id uint, amount decimal.Decimal) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).
		Model(&models.CashRegister{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}
