package services

import (
	"context"
	"time"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService manages sales. Sales are created at point-of-sale and mutate
// only through payment application (in PaymentService) or the administrative
// edit here; they are never deleted while payments reference them.
type SaleService struct {
	repo         repository.SaleRepository
	clientRepo   repository.ClientRepository
	movementRepo repository.MovementRepository
	auditSvc     *AuditService
	db           *gorm.DB
}

// NewSaleService creates a new sale service
func NewSaleService(repo repository.SaleRepository, clientRepo repository.ClientRepository, movementRepo repository.MovementRepository, auditSvc *AuditService, db *gorm.DB) *SaleService {
	return &SaleService{repo: repo, clientRepo: clientRepo, movementRepo: movementRepo, auditSvc: auditSvc, db: db}
}

// SaleRequest carries the fields for creating a sale
type SaleRequest struct {
	ClientID    uint            `json:"client_id" binding:"required"`
	Description string          `json:"description" binding:"required"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SaleDate    *time.Time      `json:"sale_date"`
}

// Create records a sale and posts the matching debit on the client ledger.
func (s *SaleService) Create(ctx context.Context, tenantID, userID uint, req SaleRequest) (*models.Sale, error) {
	if !req.TotalAmount.IsPositive() {
		return nil, NewValidationError("total_amount", "debe ser mayor a cero")
	}
	if _, err := s.clientRepo.FindByID(ctx, tenantID, req.ClientID); err != nil {
		return nil, asLookupError("cliente", req.ClientID, "find client", err)
	}

	saleDate := time.Now()
	if req.SaleDate != nil {
		saleDate = *req.SaleDate
	}

	sale := &models.Sale{
		TenantID:       tenantID,
		ClientID:       req.ClientID,
		Description:    req.Description,
		TotalAmount:    req.TotalAmount,
		PendingBalance: req.TotalAmount,
		SaleDate:       saleDate,
	}

	// Sale row and ledger debit commit or roll back together. The client row
	// lock serializes the running-balance chain against concurrent postings.
	txErr := runTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.clientRepo.LockForUpdate(ctx, tx, tenantID, req.ClientID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, tx, sale); err != nil {
			return err
		}

		prev, err := s.movementRepo.LastBalance(ctx, tx, tenantID, req.ClientID)
		if err != nil {
			return err
		}
		movement := &models.AccountMovement{
			TenantID:     tenantID,
			ClientID:     req.ClientID,
			MovementDate: saleDate,
			Detail:       "Venta: " + req.Description,
			Amount:       req.TotalAmount,
			Balance:      prev.Add(req.TotalAmount),
			MovementType: models.MovementTypeSale,
			UserID:       userID,
		}
		return s.movementRepo.Create(ctx, tx, movement)
	})
	if txErr != nil {
		return nil, NewStorageError("create sale", txErr)
	}

	s.auditSvc.Record(ctx, tenantID, userID, "CREATE", "Sale", sale.ID, req.Description)
	return sale, nil
}

// AdministrativeEdit changes a sale's description or total. The new total can
// never drop below what has already been collected: applied payments are
// immutable history.
func (s *SaleService) AdministrativeEdit(ctx context.Context, tenantID, userID, id uint, description string, totalAmount decimal.Decimal) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, asLookupError("venta", id, "find sale", err)
	}

	if !totalAmount.IsPositive() {
		return nil, NewValidationError("total_amount", "debe ser mayor a cero")
	}
	applied := sale.AppliedAmount()
	if totalAmount.LessThan(applied) {
		return nil, NewValidationError("total_amount", "no puede ser menor a lo ya cobrado")
	}

	sale.Description = description
	sale.PendingBalance = totalAmount.Sub(applied)
	sale.TotalAmount = totalAmount

	// Guarded write: a payment applied between the read above and this update
	// bumps the lock version, the edit matches zero rows and must be retried
	// against the fresh pending balance.
	rows, err := s.repo.UpdateGuarded(ctx, sale, sale.LockVersion)
	if err != nil {
		return nil, NewStorageError("update sale", err)
	}
	if rows == 0 {
		return nil, NewConflictError("venta", sale.ID)
	}
	sale.LockVersion++

	s.auditSvc.Record(ctx, tenantID, userID, "UPDATE", "Sale", sale.ID, "edición administrativa")
	return sale, nil
}

// FindByID returns one sale
func (s *SaleService) FindByID(ctx context.Context, tenantID, id uint) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, asLookupError("venta", id, "find sale", err)
	}
	return sale, nil
}

// List returns a page of sales
func (s *SaleService) List(ctx context.Context, tenantID uint, query *repository.ListQuery) ([]models.Sale, int64, error) {
	return s.repo.List(ctx, tenantID, query)
}
