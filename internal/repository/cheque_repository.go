package repository

import (
	"context"
	"time"

	"github.com/induso/cobranzas-api/internal/models"

	"gorm.io/gorm"
)

// ChequeRepository defines the interface for cheque data access
type ChequeRepository interface {
	FindByID(ctx context.Context, tenantID, id uint) (*models.Cheque, error)
	Create(ctx context.Context, cheque *models.Cheque) error
	Update(ctx context.Context, cheque *models.Cheque) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, tenantID, id uint, status string) error
	List(ctx context.Context, tenantID uint, query *ListQuery) ([]models.Cheque, int64, error)
	FindDueSoon(ctx context.Context, within time.Duration) ([]models.Cheque, error)
}

type chequeRepository struct {
	db *gorm.DB
}

// NewChequeRepository creates a new cheque repository
func NewChequeRepository(db *gorm.DB) ChequeRepository {
	return &chequeRepository{db: db}
}

func (r *chequeRepository) FindByID(ctx context.Context, tenantID, id uint) (*models.Cheque, error) {
	var cheque models.Cheque
	err := r.db.WithContext(ctx).
		Preload("Bank").
		Where("tenant_id = ?", tenantID).
		First(&cheque, id).Error
	if err != nil {
		return nil, err
	}
	return &cheque, nil
}

func (r *chequeRepository) Create(ctx context.Context, cheque *models.Cheque) error {
	return r.db.WithContext(ctx).Create(cheque).Error
}

func (r *chequeRepository) Update(ctx context.Context, cheque *models.Cheque) error {
	return r.db.WithContext(ctx).Save(cheque).Error
}

func (r *chequeRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, tenantID, id uint, status string) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).
		Model(&models.Cheque{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("status", status).Error
}

func (r *chequeRepository) List(ctx context.Context, tenantID uint, query *ListQuery) ([]models.Cheque, int64, error) {
	var cheques []models.Cheque
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Cheque{}).
		Where("tenant_id = ?", tenantID)

	if status := query.Filters["status"]; status != "" {
		db = db.Where("status = ?", status)
	}
	if bankID := query.Filters["bank_id"]; bankID != "" {
		db = db.Where("bank_id = ?", bankID)
	}
	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Where("number ILIKE ? OR issuer ILIKE ?", term, term)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Bank").
		Scopes(Paginate(query)).
		Order("due_date ASC, id ASC").
		Find(&cheques).Error
	return cheques, total, err
}

// FindDueSoon returns loaded cheques whose due date falls within the window.
// Used by the scheduled reminder job; scans across tenants.
func (r *chequeRepository) FindDueSoon(ctx context.Context, within time.Duration) ([]models.Cheque, error) {
	var cheques []models.Cheque
	limit := time.Now().Add(within)
	err := r.db.WithContext(ctx).
		Preload("Bank").
		Where("status = ? AND due_date <= ?", models.ChequeStatusCargado, limit).
		Order("due_date ASC").
		Find(&cheques).Error
	return cheques, err
}
