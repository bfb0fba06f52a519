package repository

import (
	"context"
	"errors"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// MovementRepository defines the interface for the client account ledger.
// The ledger is append-only: there is deliberately no Update or Delete.
type MovementRepository interface {
	Create(ctx context.Context, tx *gorm.DB, movement *models.AccountMovement) error
	FindByClient(ctx context.Context, tenantID, clientID uint) ([]models.AccountMovement, error)
	FindByPaymentID(ctx context.Context, tenantID, paymentID uint) ([]models.AccountMovement, error)
	LastBalance(ctx context.Context, tx *gorm.DB, tenantID, clientID uint) (decimal.Decimal, error)
	SumByClient(ctx context.Context, tenantID, clientID uint) (decimal.Decimal, error)
}

type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository creates a new account movement repository
func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) Create(ctx context.Context, tx *gorm.DB, movement *models.AccountMovement) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(movement).Error
}

func (r *movementRepository) FindByClient(ctx context.Context, tenantID, clientID uint) ([]models.AccountMovement, error) {
	var movements []models.AccountMovement
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("movement_date ASC, id ASC").
		Find(&movements).Error
	return movements, err
}

func (r *movementRepository) FindByPaymentID(ctx context.Context, tenantID, paymentID uint) ([]models.AccountMovement, error) {
	var movements []models.AccountMovement
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payment_id = ?", tenantID, paymentID).
		Order("id ASC").
		Find(&movements).Error
	return movements, err
}

// LastBalance reads the running balance after the most recent entry. Inside a
// payment transaction it must be called with the tx handle so the insert that
// follows sees a consistent predecessor.
func (r *movementRepository) LastBalance(ctx context.Context, tx *gorm.DB, tenantID, clientID uint) (decimal.Decimal, error) {
	db := tx
	if db == nil {
		db = r.db
	}
	var last models.AccountMovement
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("id DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return last.Balance, nil
}

// SumByClient recomputes the balance projection from scratch. Used by the
// consistency job to detect drift against the stored running balances.
func (r *movementRepository) SumByClient(ctx context.Context, tenantID, clientID uint) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.AccountMovement{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Scan(&result).Error
	return result.Total, err
}
