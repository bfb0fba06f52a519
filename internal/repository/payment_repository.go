package repository

import (
	"context"

	"github.com/induso/cobranzas-api/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment registration records
type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	FindByID(ctx context.Context, tenantID, id uint) (*models.Payment, error)
	FindByIdempotencyKey(ctx context.Context, tenantID uint, key string) (*models.Payment, error)
	ExistsByCheque(ctx context.Context, tenantID, chequeID uint) (bool, error)
	List(ctx context.Context, tenantID uint, query *ListQuery) ([]models.Payment, int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, tenantID, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Sale").
		Preload("PaymentMethod").
		Preload("Cheque").
		Where("tenant_id = ?", tenantID).
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByIdempotencyKey(ctx context.Context, tenantID uint, key string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND idempotency_key = ?", tenantID, key).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ExistsByCheque reports whether any posted payment references the cheque.
// Once true, the cheque's amount and bank are frozen.
func (r *paymentRepository) ExistsByCheque(ctx context.Context, tenantID, chequeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("tenant_id = ? AND cheque_id = ?", tenantID, chequeID).
		Count(&count).Error
	return count > 0, err
}

func (r *paymentRepository) List(ctx context.Context, tenantID uint, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("tenant_id = ?", tenantID)

	if clientID := query.Filters["client_id"]; clientID != "" {
		db = db.Where("client_id = ?", clientID)
	}
	if saleID := query.Filters["sale_id"]; saleID != "" {
		db = db.Where("sale_id = ?", saleID)
	}
	if start := query.Filters["start_date"]; start != "" {
		db = db.Where("created_at >= ?", start)
	}
	if end := query.Filters["end_date"]; end != "" {
		db = db.Where("created_at <= ?", end)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Client").
		Preload("PaymentMethod").
		Scopes(Paginate(query)).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, total, err
}
