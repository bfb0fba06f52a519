package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/induso/cobranzas-api/internal/jobs"
	"github.com/induso/cobranzas-api/internal/metrics"
	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService is the reconciliation engine: it validates a collection
// request, computes the financial cost, and posts payment, ledger movement
// and destination balances as one atomic unit.
type PaymentService struct {
	repo         repository.PaymentRepository
	clientRepo   repository.ClientRepository
	saleRepo     repository.SaleRepository
	movementRepo repository.MovementRepository
	chequeRepo   repository.ChequeRepository
	treasuryRepo repository.TreasuryRepository
	ruleSvc      *RuleService
	emailSvc     *EmailService
	auditSvc     *AuditService
	worker       *jobs.Worker
	db           *gorm.DB
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	repo repository.PaymentRepository,
	clientRepo repository.ClientRepository,
	saleRepo repository.SaleRepository,
	movementRepo repository.MovementRepository,
	chequeRepo repository.ChequeRepository,
	treasuryRepo repository.TreasuryRepository,
	ruleSvc *RuleService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
	db *gorm.DB,
) *PaymentService {
	return &PaymentService{
		repo:         repo,
		clientRepo:   clientRepo,
		saleRepo:     saleRepo,
		movementRepo: movementRepo,
		chequeRepo:   chequeRepo,
		treasuryRepo: treasuryRepo,
		ruleSvc:      ruleSvc,
		emailSvc:     emailSvc,
		auditSvc:     auditSvc,
		worker:       worker,
		db:           db,
	}
}

// RegisterPaymentRequest is the collection request the engine accepts
type RegisterPaymentRequest struct {
	ClientID        uint            `json:"client_id" binding:"required"`
	SaleID          uint            `json:"sale_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethodID uint            `json:"payment_method_id" binding:"required"`
	BankID          *uint           `json:"bank_id"`
	AccountID       uint            `json:"account_id" binding:"required"`
	CashRegisterID  *uint           `json:"cash_register_id"`
	ChequeID        *uint           `json:"cheque_id"`
	IdempotencyKey  string          `json:"idempotency_key"`
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Register validates the request, computes the financial cost and posts the
// ledger update. Validation happens eagerly, before any write; the writes in
// the commit phase are all-or-nothing; a replayed idempotency key returns the
// stored result without posting twice.
func (s *PaymentService) Register(ctx context.Context, tenantID, userID uint, req RegisterPaymentRequest) (*models.PaymentResult, error) {
	// Replay check first: a retried request must short-circuit before the
	// validations below would reject it for already having been applied.
	if req.IdempotencyKey != "" {
		if result, err := s.findReplay(ctx, tenantID, req.IdempotencyKey); err != nil {
			return nil, err
		} else if result != nil {
			return result, nil
		}
	}

	if !req.Amount.IsPositive() {
		return nil, NewValidationError("amount", "debe ser mayor a cero")
	}

	if _, err := s.clientRepo.FindByID(ctx, tenantID, req.ClientID); err != nil {
		return nil, asLookupError("cliente", req.ClientID, "find client", err)
	}

	sale, err := s.saleRepo.FindByID(ctx, tenantID, req.SaleID)
	if err != nil {
		return nil, asLookupError("venta", req.SaleID, "find sale", err)
	}
	if sale.ClientID != req.ClientID {
		return nil, NewValidationError("sale_id", "la venta no pertenece al cliente")
	}
	if !sale.IsPending() {
		return nil, NewValidationError("sale_id", "la venta no tiene saldo pendiente")
	}
	if req.Amount.GreaterThan(sale.PendingBalance) {
		return nil, NewValidationError("amount", "amount exceeds pending balance")
	}

	method, err := s.ruleSvc.repo.FindMethodByID(ctx, tenantID, req.PaymentMethodID)
	if err != nil {
		return nil, asLookupError("método de pago", req.PaymentMethodID, "find payment method", err)
	}

	// Cheque data is required iff the method is "cheque".
	if method.RequiresCheque() && req.ChequeID == nil {
		return nil, NewValidationError("cheque_id", "cheque data required")
	}
	if !method.RequiresCheque() && req.ChequeID != nil {
		return nil, NewValidationError("cheque_id", "el método de pago no admite cheque")
	}

	if req.BankID != nil {
		if _, err := s.treasuryRepo.FindBankByID(ctx, tenantID, *req.BankID); err != nil {
			return nil, asLookupError("banco", *req.BankID, "find bank", err)
		}
	}
	if _, err := s.treasuryRepo.FindAccountByID(ctx, tenantID, req.AccountID); err != nil {
		return nil, asLookupError("cuenta", req.AccountID, "find account", err)
	}
	if req.CashRegisterID != nil {
		if _, err := s.treasuryRepo.FindCashRegisterByID(ctx, tenantID, *req.CashRegisterID); err != nil {
			return nil, asLookupError("caja", *req.CashRegisterID, "find cash register", err)
		}
	}

	var cheque *models.Cheque
	if req.ChequeID != nil {
		cheque, err = s.chequeRepo.FindByID(ctx, tenantID, *req.ChequeID)
		if err != nil {
			return nil, asLookupError("cheque", *req.ChequeID, "find cheque", err)
		}
		if !cheque.IsAvailable() {
			return nil, NewValidationError("cheque_id", fmt.Sprintf("el cheque no está disponible (estado %s)", cheque.Status))
		}
		if !cheque.Amount.Equal(req.Amount) {
			return nil, NewValidationError("cheque_id", "cheque amount mismatch")
		}
		used, err := s.repo.ExistsByCheque(ctx, tenantID, cheque.ID)
		if err != nil {
			return nil, NewStorageError("check cheque usage", err)
		}
		if used {
			return nil, NewValidationError("cheque_id", "el cheque ya respalda otro pago")
		}
	}

	// Financial cost: bank-specific rule shadows the general one, no rule
	// means zero. The cost hits the receiving side only; the client is
	// credited for the full gross amount.
	percentage, err := s.ruleSvc.Resolve(ctx, tenantID, req.PaymentMethodID, req.BankID)
	if err != nil {
		return nil, err
	}
	financialCost := req.Amount.Mul(percentage).Div(oneHundred).Round(2)
	netAmount := req.Amount.Sub(financialCost)

	idemKey := req.IdempotencyKey
	if idemKey == "" {
		idemKey = uuid.NewString()
	}

	payment := &models.Payment{
		TenantID:        tenantID,
		IdempotencyKey:  idemKey,
		ReceiptNumber:   uuid.NewString(),
		ClientID:        req.ClientID,
		SaleID:          req.SaleID,
		Amount:          req.Amount,
		FinancialCost:   financialCost,
		NetAmount:       netAmount,
		PaymentMethodID: req.PaymentMethodID,
		BankID:          req.BankID,
		AccountID:       req.AccountID,
		CashRegisterID:  req.CashRegisterID,
		ChequeID:        req.ChequeID,
		UserID:          userID,
	}

	var conflict error
	txErr := runTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, payment); err != nil {
			return err
		}

		// The sale update is the optimistic gate: the lock version read at
		// validation time must still hold, and the pending balance must
		// still cover the amount. A concurrent writer makes this touch
		// zero rows, which rolls the whole transaction back.
		rows, err := s.saleRepo.ApplyPayment(ctx, tx, sale.ID, sale.LockVersion, req.Amount)
		if err != nil {
			return err
		}
		if rows == 0 {
			conflict = NewConflictError("venta", sale.ID)
			return conflict
		}

		// Lock the client row before reading the chain head: two payments for
		// the same client on different sales would otherwise both read the
		// same predecessor balance.
		if err := s.clientRepo.LockForUpdate(ctx, tx, tenantID, req.ClientID); err != nil {
			return err
		}
		prevBalance, err := s.movementRepo.LastBalance(ctx, tx, tenantID, req.ClientID)
		if err != nil {
			return err
		}
		movement := &models.AccountMovement{
			TenantID:     tenantID,
			ClientID:     req.ClientID,
			PaymentID:    &payment.ID,
			MovementDate: payment.CreatedAt,
			Detail:       fmt.Sprintf("Pago recibido - Recibo %s", payment.ReceiptNumber),
			Amount:       req.Amount.Neg(),
			Balance:      prevBalance.Sub(req.Amount),
			MovementType: models.MovementTypePayment,
			UserID:       userID,
		}
		if err := s.movementRepo.Create(ctx, tx, movement); err != nil {
			return err
		}

		if err := s.treasuryRepo.CreditAccount(ctx, tx, tenantID, req.AccountID, netAmount); err != nil {
			return err
		}
		if req.CashRegisterID != nil {
			if err := s.treasuryRepo.CreditCashRegister(ctx, tx, tenantID, *req.CashRegisterID, netAmount); err != nil {
				return err
			}
		}

		return nil
	})

	if txErr != nil {
		if conflict != nil {
			metrics.PaymentConflicts.Inc()
			return nil, conflict
		}
		// A unique-index violation on the idempotency key means a concurrent
		// request with the same key already committed; hand back its result.
		if req.IdempotencyKey != "" {
			if result, rerr := s.findReplay(ctx, tenantID, req.IdempotencyKey); rerr == nil && result != nil {
				return result, nil
			}
		}
		return nil, NewStorageError("register payment", txErr)
	}

	remaining := sale.PendingBalance.Sub(req.Amount)
	metrics.PaymentsRegistered.Inc()
	metrics.AmountCollected.Add(amountAsFloat(req.Amount))

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		s.auditSvc.Record(ctx, tenantID, userID, "REGISTER_PAYMENT", "Payment", payment.ID,
			fmt.Sprintf("venta %d, monto %s, costo financiero %s", req.SaleID, req.Amount, financialCost))
		client, err := s.clientRepo.FindByID(ctx, tenantID, req.ClientID)
		if err != nil {
			return err
		}
		return s.emailSvc.SendPaymentReceipt(ctx, client, payment, remaining)
	})

	result := payment.ToResult(remaining)
	return &result, nil
}

// FindByID returns one payment record
func (s *PaymentService) FindByID(ctx context.Context, tenantID, id uint) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, asLookupError("pago", id, "find payment", err)
	}
	return payment, nil
}

// List returns a page of payment records
func (s *PaymentService) List(ctx context.Context, tenantID uint, query *repository.ListQuery) ([]models.Payment, int64, error) {
	return s.repo.List(ctx, tenantID, query)
}

// LedgerTrace returns the movements a payment posted on the client's account
func (s *PaymentService) LedgerTrace(ctx context.Context, tenantID, id uint) ([]models.AccountMovement, error) {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return nil, asLookupError("pago", id, "find payment", err)
	}
	movements, err := s.movementRepo.FindByPaymentID(ctx, tenantID, id)
	if err != nil {
		return nil, NewStorageError("list payment movements", err)
	}
	return movements, nil
}

// findReplay returns the stored result for an already-applied idempotency key,
// or nil when the key is fresh.
func (s *PaymentService) findReplay(ctx context.Context, tenantID uint, key string) (*models.PaymentResult, error) {
	existing, err := s.repo.FindByIdempotencyKey(ctx, tenantID, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, NewStorageError("idempotency lookup", err)
	}

	sale, err := s.saleRepo.FindByID(ctx, tenantID, existing.SaleID)
	if err != nil {
		return nil, NewStorageError("idempotency lookup", err)
	}

	result := existing.ToResult(sale.PendingBalance)
	return &result, nil
}

// asLookupError maps a repository read failure to the error taxonomy.
func asLookupError(entity string, id uint, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError(entity, id)
	}
	return NewStorageError(op, err)
}

func amountAsFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
