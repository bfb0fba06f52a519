package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/induso/cobranzas-api/internal/jobs"
	"github.com/induso/cobranzas-api/internal/metrics"
	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/induso/cobranzas-api/internal/statemachine"
	"github.com/induso/cobranzas-api/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ChequeService manages the cheque catalog and its lifecycle.
type ChequeService struct {
	repo        repository.ChequeRepository
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	emailSvc    *EmailService
	auditSvc    *AuditService
	worker      *jobs.Worker
}

// NewChequeService creates a new cheque service
func NewChequeService(
	repo repository.ChequeRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *ChequeService {
	return &ChequeService{
		repo:        repo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		auditSvc:    auditSvc,
		worker:      worker,
	}
}

// ChequeRequest carries the fields for creating or updating a cheque
type ChequeRequest struct {
	Number       string          `json:"number" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	BankID       uint            `json:"bank_id" binding:"required"`
	Issuer       string          `json:"issuer" binding:"required"`
	CUIT         string          `json:"cuit"`
	DueDate      time.Time       `json:"due_date" binding:"required"`
	Recipient    *string         `json:"recipient"`
	ReceivedFrom *string         `json:"received_from"`
	Observations *string         `json:"observations"`
}

// Create loads a new cheque; the initial state is always cargado.
func (s *ChequeService) Create(ctx context.Context, tenantID, userID uint, req ChequeRequest) (*models.Cheque, error) {
	if !req.Amount.IsPositive() {
		return nil, NewValidationError("amount", "debe ser mayor a cero")
	}

	cheque := &models.Cheque{
		TenantID:     tenantID,
		Number:       req.Number,
		Amount:       req.Amount,
		BankID:       req.BankID,
		Issuer:       req.Issuer,
		CUIT:         req.CUIT,
		DueDate:      req.DueDate,
		Recipient:    req.Recipient,
		ReceivedFrom: req.ReceivedFrom,
		Status:       models.ChequeStatusCargado,
		Observations: req.Observations,
	}

	if err := s.repo.Create(ctx, cheque); err != nil {
		return nil, NewStorageError("create cheque", err)
	}

	s.auditSvc.Record(ctx, tenantID, userID, "CREATE", "Cheque", cheque.ID, "Nº "+cheque.Number)
	return cheque, nil
}

// Update edits cheque fields. Amount and bank freeze once a posted payment
// references the cheque; this is enforced here, not in the presentation layer.
func (s *ChequeService) Update(ctx context.Context, tenantID, userID, id uint, req ChequeRequest) (*models.Cheque, error) {
	cheque, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, asLookupError("cheque", id, "find cheque", err)
	}

	if !req.Amount.IsPositive() {
		return nil, NewValidationError("amount", "debe ser mayor a cero")
	}

	linked, err := s.paymentRepo.ExistsByCheque(ctx, tenantID, id)
	if err != nil {
		return nil, NewStorageError("check cheque usage", err)
	}
	if linked {
		if !cheque.Amount.Equal(req.Amount) {
			return nil, NewValidationError("amount", "el monto es inmutable: el cheque respalda un pago registrado")
		}
		if cheque.BankID != req.BankID {
			return nil, NewValidationError("bank_id", "el banco es inmutable: el cheque respalda un pago registrado")
		}
	}

	cheque.Number = req.Number
	cheque.Amount = req.Amount
	cheque.BankID = req.BankID
	cheque.Issuer = req.Issuer
	cheque.CUIT = req.CUIT
	cheque.DueDate = req.DueDate
	cheque.Recipient = req.Recipient
	cheque.ReceivedFrom = req.ReceivedFrom
	cheque.Observations = req.Observations

	if err := s.repo.Update(ctx, cheque); err != nil {
		return nil, NewStorageError("update cheque", err)
	}

	s.auditSvc.Record(ctx, tenantID, userID, "UPDATE", "Cheque", cheque.ID, "")
	return cheque, nil
}

// FindByID returns one cheque
func (s *ChequeService) FindByID(ctx context.Context, tenantID, id uint) (*models.Cheque, error) {
	cheque, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, asLookupError("cheque", id, "find cheque", err)
	}
	return cheque, nil
}

// List returns a page of cheques
func (s *ChequeService) List(ctx context.Context, tenantID uint, query *repository.ListQuery) ([]models.Cheque, int64, error) {
	return s.repo.List(ctx, tenantID, query)
}

// Deliver marks the cheque as endorsed to a third party
func (s *ChequeService) Deliver(ctx context.Context, tenantID, userID, id uint, recipient string) (*models.Cheque, error) {
	return s.transition(ctx, tenantID, userID, id, func(fsm *statemachine.ChequeFSM) error {
		return fsm.Deliver(ctx)
	}, func(c *models.Cheque) {
		if recipient != "" {
			c.Recipient = &recipient
		}
	})
}

// Reject marks the cheque as bounced and notifies the operators
func (s *ChequeService) Reject(ctx context.Context, tenantID, userID, id uint, reason string) (*models.Cheque, error) {
	cheque, err := s.transition(ctx, tenantID, userID, id, func(fsm *statemachine.ChequeFSM) error {
		return fsm.Reject(ctx)
	}, func(c *models.Cheque) {
		if reason != "" {
			c.Observations = &reason
		}
	})
	if err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notifyBounced(ctx, tenantID, cheque)
	})
	return cheque, nil
}

// Cash marks the cheque as cashed
func (s *ChequeService) Cash(ctx context.Context, tenantID, userID, id uint) (*models.Cheque, error) {
	return s.transition(ctx, tenantID, userID, id, func(fsm *statemachine.ChequeFSM) error {
		return fsm.Cash(ctx)
	}, nil)
}

// Void marks the cheque as voided
func (s *ChequeService) Void(ctx context.Context, tenantID, userID, id uint) (*models.Cheque, error) {
	return s.transition(ctx, tenantID, userID, id, func(fsm *statemachine.ChequeFSM) error {
		return fsm.Void(ctx)
	}, nil)
}

// NotifyDueSoon mails the admins of each tenant a digest of loaded cheques
// due within the window. Invoked by the scheduler.
func (s *ChequeService) NotifyDueSoon(ctx context.Context, within time.Duration) error {
	cheques, err := s.repo.FindDueSoon(ctx, within)
	if err != nil {
		return err
	}
	if len(cheques) == 0 {
		return nil
	}

	byTenant := make(map[uint][]models.Cheque)
	for _, c := range cheques {
		byTenant[c.TenantID] = append(byTenant[c.TenantID], c)
	}

	for tenantID, batch := range byTenant {
		admins, err := s.findAdmins(ctx, tenantID)
		if err != nil {
			logger.Error("Failed to find admins for cheque digest", "tenant_id", tenantID, "error", err)
			continue
		}
		// Sends go through the worker queue so one slow mail provider call
		// does not stall the sweep
		for _, admin := range admins {
			to := admin.Email
			s.worker.Enqueue(func(ctx context.Context) error {
				return s.emailSvc.SendChequesDueSoon(ctx, to, batch)
			})
		}
	}
	return nil
}

func (s *ChequeService) transition(ctx context.Context, tenantID, userID, id uint, event func(*statemachine.ChequeFSM) error, mutate func(*models.Cheque)) (*models.Cheque, error) {
	cheque, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, asLookupError("cheque", id, "find cheque", err)
	}

	fsm := statemachine.NewChequeFSM(cheque)
	if err := event(fsm); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, err.Error())
	}

	if mutate != nil {
		mutate(cheque)
	}

	if err := s.repo.Update(ctx, cheque); err != nil {
		return nil, NewStorageError("update cheque", err)
	}

	metrics.ChequeTransitions.WithLabelValues(cheque.Status).Inc()
	s.auditSvc.Record(ctx, tenantID, userID, "TRANSITION", "Cheque", cheque.ID, "-> "+cheque.Status)
	return cheque, nil
}

func (s *ChequeService) notifyBounced(ctx context.Context, tenantID uint, cheque *models.Cheque) error {
	admins, err := s.findAdmins(ctx, tenantID)
	if err != nil {
		return err
	}
	for _, admin := range admins {
		if err := s.emailSvc.SendChequeBounced(ctx, admin.Email, cheque); err != nil {
			logger.Error("Failed to send bounced-cheque email", "to", admin.Email, "error", err)
		}
	}
	return nil
}

func (s *ChequeService) findAdmins(ctx context.Context, tenantID uint) ([]models.User, error) {
	query := repository.NewListQuery()
	query.PerPage = 100
	users, _, err := s.userRepo.List(ctx, tenantID, query)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var admins []models.User
	for _, u := range users {
		if u.IsAdmin() && u.IsActive() {
			admins = append(admins, u)
		}
	}
	return admins, nil
}
