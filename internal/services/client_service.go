package services

import (
	"context"
	"time"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/induso/cobranzas-api/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClientService manages clients and their current accounts.
type ClientService struct {
	repo         repository.ClientRepository
	saleRepo     repository.SaleRepository
	movementRepo repository.MovementRepository
	auditSvc     *AuditService
	db           *gorm.DB
}

// NewClientService creates a new client service
func NewClientService(repo repository.ClientRepository, saleRepo repository.SaleRepository, movementRepo repository.MovementRepository, auditSvc *AuditService, db *gorm.DB) *ClientService {
	return &ClientService{repo: repo, saleRepo: saleRepo, movementRepo: movementRepo, auditSvc: auditSvc, db: db}
}

// ClientRequest carries the fields for creating or updating a client
type ClientRequest struct {
	Name    string  `json:"name" binding:"required"`
	CUIT    string  `json:"cuit"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Note    *string `json:"note"`
}

// Create adds a client
func (s *ClientService) Create(ctx context.Context, tenantID, userID uint, req ClientRequest) (*models.Client, error) {
	client := &models.Client{
		TenantID: tenantID,
		Name:     req.Name,
		CUIT:     req.CUIT,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Note:     req.Note,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, NewStorageError("create client", err)
	}
	s.auditSvc.Record(ctx, tenantID, userID, "CREATE", "Client", client.ID, client.Name)
	return client, nil
}

// Update edits a client
func (s *ClientService) Update(ctx context.Context, tenantID, userID, id uint, req ClientRequest) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, asLookupError("cliente", id, "find client", err)
	}

	client.Name = req.Name
	client.CUIT = req.CUIT
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	client.Note = req.Note

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, NewStorageError("update client", err)
	}
	s.auditSvc.Record(ctx, tenantID, userID, "UPDATE", "Client", client.ID, "")
	return client, nil
}

// Discard soft-deletes a client. The ledger stays: movements are immutable.
func (s *ClientService) Discard(ctx context.Context, tenantID, userID, id uint) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return asLookupError("cliente", id, "find client", err)
	}
	if err := s.repo.Discard(ctx, tenantID, id); err != nil {
		return NewStorageError("discard client", err)
	}
	s.auditSvc.Record(ctx, tenantID, userID, "DELETE", "Client", id, "")
	return nil
}

// FindByID returns one client
func (s *ClientService) FindByID(ctx context.Context, tenantID, id uint) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, asLookupError("cliente", id, "find client", err)
	}
	return client, nil
}

// List returns a page of clients
func (s *ClientService) List(ctx context.Context, tenantID uint, query *repository.ListQuery) ([]models.Client, int64, error) {
	return s.repo.List(ctx, tenantID, query)
}

// PendingSales lists the client's sales with outstanding balance
func (s *ClientService) PendingSales(ctx context.Context, tenantID, clientID uint) ([]models.Sale, error) {
	if _, err := s.repo.FindByID(ctx, tenantID, clientID); err != nil {
		return nil, asLookupError("cliente", clientID, "find client", err)
	}
	sales, err := s.saleRepo.FindPendingByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, NewStorageError("list pending sales", err)
	}
	return sales, nil
}

// Movements lists the client's ledger entries ordered by date ascending
func (s *ClientService) Movements(ctx context.Context, tenantID, clientID uint) ([]models.AccountMovement, error) {
	if _, err := s.repo.FindByID(ctx, tenantID, clientID); err != nil {
		return nil, asLookupError("cliente", clientID, "find client", err)
	}
	movements, err := s.movementRepo.FindByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, NewStorageError("list movements", err)
	}
	return movements, nil
}

// AccountSummary derives the client's running balance and pending sale count
func (s *ClientService) AccountSummary(ctx context.Context, tenantID, clientID uint) (*models.ClientAccountSummary, error) {
	if _, err := s.repo.FindByID(ctx, tenantID, clientID); err != nil {
		return nil, asLookupError("cliente", clientID, "find client", err)
	}

	balance, err := s.repo.Balance(ctx, tenantID, clientID)
	if err != nil {
		return nil, NewStorageError("derive balance", err)
	}

	sales, err := s.saleRepo.FindPendingByClient(ctx, tenantID, clientID)
	if err != nil {
		return nil, NewStorageError("list pending sales", err)
	}

	return &models.ClientAccountSummary{
		ClientID:     clientID,
		Balance:      balance,
		PendingSales: int64(len(sales)),
	}, nil
}

// ManualMovementRequest carries the fields for a hand-entered ledger entry
type ManualMovementRequest struct {
	Detail string          `json:"detail" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// AddManualMovement appends a manual entry to the client's ledger, chaining
// the running balance off the previous entry.
func (s *ClientService) AddManualMovement(ctx context.Context, tenantID, userID, clientID uint, req ManualMovementRequest) (*models.AccountMovement, error) {
	if _, err := s.repo.FindByID(ctx, tenantID, clientID); err != nil {
		return nil, asLookupError("cliente", clientID, "find client", err)
	}
	if req.Amount.IsZero() {
		return nil, NewValidationError("amount", "no puede ser cero")
	}

	// The client row lock serializes the running-balance chain against
	// concurrent postings for the same client.
	var movement *models.AccountMovement
	txErr := runTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.repo.LockForUpdate(ctx, tx, tenantID, clientID); err != nil {
			return err
		}
		prev, err := s.movementRepo.LastBalance(ctx, tx, tenantID, clientID)
		if err != nil {
			return err
		}
		movement = &models.AccountMovement{
			TenantID:     tenantID,
			ClientID:     clientID,
			MovementDate: time.Now(),
			Detail:       req.Detail,
			Amount:       req.Amount,
			Balance:      prev.Add(req.Amount),
			MovementType: models.MovementTypeManual,
			UserID:       userID,
		}
		return s.movementRepo.Create(ctx, tx, movement)
	})
	if txErr != nil {
		return nil, NewStorageError("create movement", txErr)
	}

	s.auditSvc.Record(ctx, tenantID, userID, "CREATE", "AccountMovement", movement.ID, req.Detail)
	return movement, nil
}

// VerifyLedgerConsistency recomputes each client's balance projection from the
// raw ledger and logs any drift against the stored running balances. Invoked
// by the scheduler; never mutates, only reports.
func (s *ClientService) VerifyLedgerConsistency(ctx context.Context, tenantID uint) error {
	query := repository.NewListQuery()
	query.PerPage = 100

	for page := 1; ; page++ {
		query.Page = page
		clients, _, err := s.repo.List(ctx, tenantID, query)
		if err != nil {
			return err
		}
		if len(clients) == 0 {
			return nil
		}

		for _, client := range clients {
			sum, err := s.movementRepo.SumByClient(ctx, tenantID, client.ID)
			if err != nil {
				return err
			}
			last, err := s.movementRepo.LastBalance(ctx, nil, tenantID, client.ID)
			if err != nil {
				return err
			}
			if !sum.Equal(last) {
				logger.Warn("Ledger drift detected",
					"tenant_id", tenantID,
					"client_id", client.ID,
					"sum", sum.StringFixed(2),
					"running_balance", last.StringFixed(2))
			}
		}
	}
}

// VerifyAllLedgers runs the consistency check for every tenant.
func (s *ClientService) VerifyAllLedgers(ctx context.Context) error {
	tenantIDs, err := s.repo.TenantIDs(ctx)
	if err != nil {
		return NewStorageError("list tenants", err)
	}
	for _, tenantID := range tenantIDs {
		if err := s.VerifyLedgerConsistency(ctx, tenantID); err != nil {
			logger.Error("Ledger consistency check failed", "tenant_id", tenantID, "error", err)
		}
	}
	return nil
}
