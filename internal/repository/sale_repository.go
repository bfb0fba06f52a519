package repository

import (
	"context"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	FindByID(ctx context.Context, tenantID, id uint) (*models.Sale, error)
	Create(ctx context.Context, tx *gorm.DB, sale *models.Sale) error
	// UpdateGuarded persists an administrative edit guarded by the lock
	// version read at validation time. 0 rows means a concurrent writer won.
	UpdateGuarded(ctx context.Context, sale *models.Sale, lockVersion int) (int64, error)
	List(ctx context.Context, tenantID uint, query *ListQuery) ([]models.Sale, int64, error)
	FindPendingByClient(ctx context.Context, tenantID, clientID uint) ([]models.Sale, error)
	// ApplyPayment decrements the sale's pending balance guarded by the lock
	// version read at validation time. Returns gorm.ErrRecordNotFound-like
	// signal via rows affected: 0 rows means a concurrent writer won.
	ApplyPayment(ctx context.Context, tx *gorm.DB, saleID uint, lockVersion int, amount decimal.Decimal) (int64, error)
}

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) FindByID(ctx context.Context, tenantID, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&sale, id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) Create(ctx context.Context, tx *gorm.DB, sale *models.Sale) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) UpdateGuarded(ctx context.Context, sale *models.Sale, lockVersion int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ? AND tenant_id = ? AND lock_version = ?", sale.ID, sale.TenantID, lockVersion).
		Updates(map[string]interface{}{
			"description":     sale.Description,
			"total_amount":    sale.TotalAmount,
			"pending_balance": sale.PendingBalance,
			"lock_version":    gorm.Expr("lock_version + 1"),
		})
	return res.RowsAffected, res.Error
}

func (r *saleRepository) List(ctx context.Context, tenantID uint, query *ListQuery) ([]models.Sale, int64, error) {
	var sales []models.Sale
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Sale{}).
		Where("tenant_id = ?", tenantID)

	if clientID := query.Filters["client_id"]; clientID != "" {
		db = db.Where("client_id = ?", clientID)
	}
	if query.Filters["pending"] == "true" {
		db = db.Where("pending_balance > 0")
	}
	if query.Search != "" {
		db = db.Where("description ILIKE ?", "%"+query.Search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Client").
		Scopes(Paginate(query)).
		Order("sale_date DESC, id DESC").
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepository) FindPendingByClient(ctx context.Context, tenantID, clientID uint) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ? AND pending_balance > 0", tenantID, clientID).
		Order("sale_date ASC, id ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) ApplyPayment(ctx context.Context, tx *gorm.DB, saleID uint, lockVersion int, amount decimal.Decimal) (int64, error) {
	db := tx
	if db == nil {
		db = r.db
	}
	res := db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ? AND lock_version = ? AND pending_balance >= ?", saleID, lockVersion, amount).
		Updates(map[string]interface{}{
			"pending_balance": gorm.Expr("pending_balance - ?", amount),
			"lock_version":    gorm.Expr("lock_version + 1"),
		})
	return res.RowsAffected, res.Error
}
