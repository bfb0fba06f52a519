package repository

import (
	"context"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListQuery carries pagination, search and filter parameters for list endpoints
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Paginate returns a GORM scope applying the query's page/per_page
func Paginate(query *ListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		page := query.Page
		if page < 1 {
			page = 1
		}
		perPage := query.PerPage
		if perPage < 1 || perPage > 100 {
			perPage = 20
		}
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	FindByID(ctx context.Context, tenantID, id uint) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Discard(ctx context.Context, tenantID, id uint) error
	// LockForUpdate takes a row lock on the client inside tx, serializing
	// ledger appends for that client until the transaction commits.
	LockForUpdate(ctx context.Context, tx *gorm.DB, tenantID, id uint) error
	List(ctx context.Context, tenantID uint, query *ListQuery) ([]models.Client, int64, error)
	Balance(ctx context.Context, tenantID, id uint) (decimal.Decimal, error)
	TenantIDs(ctx context.Context) ([]uint, error)
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) FindByID(ctx context.Context, tenantID, id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND discarded_at IS NULL", tenantID).
		First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) LockForUpdate(ctx context.Context, tx *gorm.DB, tenantID, id uint) error {
	db := tx
	if db == nil {
		db = r.db
	}
	var client models.Client
	return db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ?", tenantID).
		First(&client, id).Error
}

func (r *clientRepository) Discard(ctx context.Context, tenantID, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("discarded_at", gorm.Expr("NOW()")).Error
}

func (r *clientRepository) List(ctx context.Context, tenantID uint, query *ListQuery) ([]models.Client, int64, error) {
	var clients []models.Client
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("tenant_id = ? AND discarded_at IS NULL", tenantID)

	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR cuit ILIKE ?", term, term)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Scopes(Paginate(query)).Order("name ASC").Find(&clients).Error
	return clients, total, err
}

// Balance derives the client's running balance from the movement ledger.
// The balance is never stored on the client row.
func (r *clientRepository) Balance(ctx context.Context, tenantID, id uint) (decimal.Decimal, error) {
	var result struct {
		Balance decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Model(&models.AccountMovement{}).
		Select("COALESCE(SUM(amount), 0) as balance").
		Where("tenant_id = ? AND client_id = ?", tenantID, id).
		Scan(&result).Error

	return result.Balance, err
}

// TenantIDs lists every tenant with at least one client. Used by cross-tenant
// scheduled jobs.
func (r *clientRepository) TenantIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Distinct("tenant_id").
		Order("tenant_id").
		Pluck("tenant_id", &ids).Error
	return ids, err
}
