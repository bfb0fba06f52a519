package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/induso/cobranzas-api/internal/config"
	"github.com/induso/cobranzas-api/internal/jobs"
	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mock PaymentRepository
type mockPaymentRepo struct {
	repository.PaymentRepository
	created               []*models.Payment
	mockFindByIdempotency func(ctx context.Context, tenantID uint, key string) (*models.Payment, error)
	mockExistsByCheque    func(ctx context.Context, tenantID, chequeID uint) (bool, error)
}

func (m *mockPaymentRepo) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	payment.ID = uint(len(m.created) + 1)
	m.created = append(m.created, payment)
	return nil
}

func (m *mockPaymentRepo) FindByIdempotencyKey(ctx context.Context, tenantID uint, key string) (*models.Payment, error) {
	if m.mockFindByIdempotency != nil {
		return m.mockFindByIdempotency(ctx, tenantID, key)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) ExistsByCheque(ctx context.Context, tenantID, chequeID uint) (bool, error) {
	if m.mockExistsByCheque != nil {
		return m.mockExistsByCheque(ctx, tenantID, chequeID)
	}
	return false, nil
}

// Mock ClientRepository
type mockClientRepo struct {
	repository.ClientRepository
	mockFindByID      func(ctx context.Context, tenantID, id uint) (*models.Client, error)
	mockLockForUpdate func(ctx context.Context, tx *gorm.DB, tenantID, id uint) error
	locked            []uint
}

func (m *mockClientRepo) FindByID(ctx context.Context, tenantID, id uint) (*models.Client, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, tenantID, id)
	}
	return &models.Client{ID: id, TenantID: tenantID, Name: "Cliente Test"}, nil
}

func (m *mockClientRepo) LockForUpdate(ctx context.Context, tx *gorm.DB, tenantID, id uint) error {
	if m.mockLockForUpdate != nil {
		return m.mockLockForUpdate(ctx, tx, tenantID, id)
	}
	m.locked = append(m.locked, id)
	return nil
}

// Mock SaleRepository
type mockSaleRepo struct {
	repository.SaleRepository
	sale             *models.Sale
	appliedAmounts   []decimal.Decimal
	mockApplyPayment func(ctx context.Context, tx *gorm.DB, saleID uint, lockVersion int, amount decimal.Decimal) (int64, error)
}

func (m *mockSaleRepo) FindByID(ctx context.Context, tenantID, id uint) (*models.Sale, error) {
	if m.sale == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.sale, nil
}

func (m *mockSaleRepo) ApplyPayment(ctx context.Context, tx *gorm.DB, saleID uint, lockVersion int, amount decimal.Decimal) (int64, error) {
	if m.mockApplyPayment != nil {
		return m.mockApplyPayment(ctx, tx, saleID, lockVersion, amount)
	}
	m.appliedAmounts = append(m.appliedAmounts, amount)
	return 1, nil
}

// Mock MovementRepository
type mockMovementRepo struct {
	repository.MovementRepository
	created         []*models.AccountMovement
	lastBalance     decimal.Decimal
	mockCreate      func(ctx context.Context, tx *gorm.DB, movement *models.AccountMovement) error
	mockLastBalance func(ctx context.Context, tx *gorm.DB, tenantID, clientID uint) (decimal.Decimal, error)
}

func (m *mockMovementRepo) Create(ctx context.Context, tx *gorm.DB, movement *models.AccountMovement) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, tx, movement)
	}
	movement.ID = uint(len(m.created) + 1)
	m.created = append(m.created, movement)
	return nil
}

func (m *mockMovementRepo) LastBalance(ctx context.Context, tx *gorm.DB, tenantID, clientID uint) (decimal.Decimal, error) {
	if m.mockLastBalance != nil {
		return m.mockLastBalance(ctx, tx, tenantID, clientID)
	}
	return m.lastBalance, nil
}

// Mock ChequeRepository
type mockChequeRepo struct {
	repository.ChequeRepository
	cheque           *models.Cheque
	statusUpdates    []string
	mockUpdateStatus func(ctx context.Context, tx *gorm.DB, tenantID, id uint, status string) error
}

func (m *mockChequeRepo) FindByID(ctx context.Context, tenantID, id uint) (*models.Cheque, error) {
	if m.cheque == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.cheque, nil
}

func (m *mockChequeRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, tenantID, id uint, status string) error {
	if m.mockUpdateStatus != nil {
		return m.mockUpdateStatus(ctx, tx, tenantID, id, status)
	}
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

// Mock TreasuryRepository
type mockTreasuryRepo struct {
	repository.TreasuryRepository
	accountCredits      []decimal.Decimal
	cashRegisterCredits []decimal.Decimal
}

func (m *mockTreasuryRepo) FindBankByID(ctx context.Context, tenantID, id uint) (*models.Bank, error) {
	return &models.Bank{ID: id, TenantID: tenantID, Name: "Banco Test"}, nil
}

func (m *mockTreasuryRepo) FindAccountByID(ctx context.Context, tenantID, id uint) (*models.Account, error) {
	return &models.Account{ID: id, TenantID: tenantID, Name: "Cuenta Test"}, nil
}

func (m *mockTreasuryRepo) FindCashRegisterByID(ctx context.Context, tenantID, id uint) (*models.CashRegister, error) {
	return &models.CashRegister{ID: id, TenantID: tenantID, Name: "Caja Test"}, nil
}

func (m *mockTreasuryRepo) CreditAccount(ctx context.Context, tx *gorm.DB, tenantID, id uint, amount decimal.Decimal) error {
	m.accountCredits = append(m.accountCredits, amount)
	return nil
}

func (m *mockTreasuryRepo) CreditCashRegister(ctx context.Context, tx *gorm.DB, tenantID, id uint, amount decimal.Decimal) error {
	m.cashRegisterCredits = append(m.cashRegisterCredits, amount)
	return nil
}

// Mock RuleRepository
type mockRuleRepo struct {
	repository.RuleRepository
	rules   map[string]*models.FinancialCostRule
	methods map[uint]*models.PaymentMethodType
}

func ruleKey(methodID uint, bankID *uint) string {
	if bankID == nil {
		return fmt.Sprintf("%d-general", methodID)
	}
	return fmt.Sprintf("%d-%d", methodID, *bankID)
}

func (m *mockRuleRepo) FindByMethodAndBank(ctx context.Context, tenantID, methodID uint, bankID *uint) (*models.FinancialCostRule, error) {
	if rule, ok := m.rules[ruleKey(methodID, bankID)]; ok {
		return rule, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRuleRepo) FindMethodByID(ctx context.Context, tenantID, id uint) (*models.PaymentMethodType, error) {
	if method, ok := m.methods[id]; ok {
		return method, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type engineFixture struct {
	svc          *PaymentService
	paymentRepo  *mockPaymentRepo
	clientRepo   *mockClientRepo
	saleRepo     *mockSaleRepo
	movementRepo *mockMovementRepo
	chequeRepo   *mockChequeRepo
	treasuryRepo *mockTreasuryRepo
	ruleRepo     *mockRuleRepo
	worker       *jobs.Worker
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	f := &engineFixture{
		paymentRepo:  &mockPaymentRepo{},
		clientRepo:   &mockClientRepo{},
		saleRepo:     &mockSaleRepo{},
		movementRepo: &mockMovementRepo{},
		chequeRepo:   &mockChequeRepo{},
		treasuryRepo: &mockTreasuryRepo{},
		ruleRepo: &mockRuleRepo{
			rules:   map[string]*models.FinancialCostRule{},
			methods: map[uint]*models.PaymentMethodType{},
		},
		worker: jobs.NewWorker(1),
	}
	t.Cleanup(f.worker.Shutdown)

	cfg := &config.Config{}
	ruleSvc := NewRuleService(f.ruleRepo, f.treasuryRepo, NewAuditService(nil))
	f.svc = NewPaymentService(
		f.paymentRepo,
		f.clientRepo,
		f.saleRepo,
		f.movementRepo,
		f.chequeRepo,
		f.treasuryRepo,
		ruleSvc,
		NewEmailService(cfg),
		NewAuditService(nil),
		f.worker,
		nil,
	)
	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPaymentService_Register_AppliesRuleAndPostsLedger(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       5,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("1000"),
		LockVersion:    3,
	}
	f.ruleRepo.methods[2] = &models.PaymentMethodType{ID: 2, Name: "Transferencia"}
	bankID := uint(7)
	f.ruleRepo.rules[ruleKey(2, &bankID)] = &models.FinancialCostRule{
		PaymentMethodID: 2,
		BankID:          &bankID,
		Percentage:      dec("2"),
	}
	f.movementRepo.lastBalance = dec("1000")

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("1000"),
		PaymentMethodID: 2,
		BankID:          &bankID,
		AccountID:       1,
	})

	require.NoError(t, err)
	assert.True(t, result.AmountCollected.Equal(dec("1000")))
	assert.True(t, result.FinancialCost.Equal(dec("20.00")))
	assert.True(t, result.NetAmount.Equal(dec("980.00")))
	assert.True(t, result.RemainingBalance.Equal(dec("0")))

	// The client ledger is credited for the gross amount; the financial cost
	// only hits the receiving account.
	require.Len(t, f.movementRepo.created, 1)
	movement := f.movementRepo.created[0]
	assert.True(t, movement.Amount.Equal(dec("-1000")))
	assert.True(t, movement.Balance.Equal(dec("0")))
	assert.Equal(t, models.MovementTypePayment, movement.MovementType)

	require.Len(t, f.treasuryRepo.accountCredits, 1)
	assert.True(t, f.treasuryRepo.accountCredits[0].Equal(dec("980.00")))
	assert.Empty(t, f.treasuryRepo.cashRegisterCredits)
}

func TestPaymentService_Register_NoRuleMeansZeroCost(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       5,
		TotalAmount:    dec("800"),
		PendingBalance: dec("800"),
	}
	f.ruleRepo.methods[1] = &models.PaymentMethodType{ID: 1, Name: "Efectivo"}
	cashRegisterID := uint(3)
	f.movementRepo.lastBalance = dec("800")

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("500"),
		PaymentMethodID: 1,
		AccountID:       1,
		CashRegisterID:  &cashRegisterID,
	})

	require.NoError(t, err)
	assert.True(t, result.FinancialCost.IsZero())
	assert.True(t, result.NetAmount.Equal(dec("500")))
	assert.True(t, result.RemainingBalance.Equal(dec("300")))

	// Cash goes to the register as well as the account, both at net value.
	require.Len(t, f.treasuryRepo.cashRegisterCredits, 1)
	assert.True(t, f.treasuryRepo.cashRegisterCredits[0].Equal(dec("500")))
}

func TestPaymentService_Register_BankRuleShadowsGeneral(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       5,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("1000"),
	}
	f.ruleRepo.methods[2] = &models.PaymentMethodType{ID: 2, Name: "Tarjeta"}
	bankID := uint(7)
	f.ruleRepo.rules[ruleKey(2, nil)] = &models.FinancialCostRule{
		PaymentMethodID: 2,
		Percentage:      dec("5"),
	}
	f.ruleRepo.rules[ruleKey(2, &bankID)] = &models.FinancialCostRule{
		PaymentMethodID: 2,
		BankID:          &bankID,
		Percentage:      dec("1.5"),
	}

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("200"),
		PaymentMethodID: 2,
		BankID:          &bankID,
		AccountID:       1,
	})

	require.NoError(t, err)
	assert.True(t, result.FinancialCost.Equal(dec("3.00")), "bank-specific 1.5%% beats general 5%%")
}

func TestPaymentService_Register_AmountExceedsPendingBalance(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       5,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("100"),
	}
	f.ruleRepo.methods[1] = &models.PaymentMethodType{ID: 1, Name: "Efectivo"}

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("150"),
		PaymentMethodID: 1,
		AccountID:       1,
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "amount exceeds pending balance")
	assert.Empty(t, f.paymentRepo.created)
	assert.Empty(t, f.movementRepo.created)
}

func TestPaymentService_Register_ChequeRequired(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       5,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("1000"),
	}
	f.ruleRepo.methods[4] = &models.PaymentMethodType{ID: 4, Name: "Cheque"}

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("1000"),
		PaymentMethodID: 4,
		AccountID:       1,
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "cheque data required")
}

func TestPaymentService_Register_ChequeOnNonChequeMethod(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       5,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("1000"),
	}
	f.ruleRepo.methods[1] = &models.PaymentMethodType{ID: 1, Name: "Efectivo"}
	chequeID := uint(8)

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("1000"),
		PaymentMethodID: 1,
		AccountID:       1,
		ChequeID:        &chequeID,
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestPaymentService_Register_ChequeAmountMismatch(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       5,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("1000"),
	}
	f.ruleRepo.methods[4] = &models.PaymentMethodType{ID: 4, Name: "Cheque"}
	f.chequeRepo.cheque = &models.Cheque{
		ID:     8,
		Amount: dec("900"),
		Status: models.ChequeStatusCargado,
	}
	chequeID := uint(8)

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("1000"),
		PaymentMethodID: 4,
		AccountID:       1,
		ChequeID:        &chequeID,
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "cheque amount mismatch")

	// A failed validation leaves no trace: no payment, no movement, no credit.
	assert.Empty(t, f.paymentRepo.created)
	assert.Empty(t, f.movementRepo.created)
	assert.Empty(t, f.treasuryRepo.accountCredits)
}

func TestPaymentService_Register_ChequeAlreadyUsed(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       5,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("1000"),
	}
	f.ruleRepo.methods[4] = &models.PaymentMethodType{ID: 4, Name: "Cheque"}
	f.chequeRepo.cheque = &models.Cheque{
		ID:     8,
		Amount: dec("1000"),
		Status: models.ChequeStatusCargado,
	}
	f.paymentRepo.mockExistsByCheque = func(ctx context.Context, tenantID, chequeID uint) (bool, error) {
		return true, nil
	}
	chequeID := uint(8)

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("1000"),
		PaymentMethodID: 4,
		AccountID:       1,
		ChequeID:        &chequeID,
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestPaymentService_Register_ConcurrentModificationConflict(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       5,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("1000"),
		LockVersion:    3,
	}
	f.ruleRepo.methods[1] = &models.PaymentMethodType{ID: 1, Name: "Efectivo"}
	f.saleRepo.mockApplyPayment = func(ctx context.Context, tx *gorm.DB, saleID uint, lockVersion int, amount decimal.Decimal) (int64, error) {
		// Another writer bumped the lock version; the guarded update matches
		// zero rows.
		return 0, nil
	}

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("100"),
		PaymentMethodID: 1,
		AccountID:       1,
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Empty(t, f.movementRepo.created)
	assert.Empty(t, f.treasuryRepo.accountCredits)
}

func TestPaymentService_Register_LocksClientBeforeBalanceRead(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       5,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("1000"),
	}
	f.ruleRepo.methods[1] = &models.PaymentMethodType{ID: 1, Name: "Efectivo"}

	// The chain head may only be read under the client row lock; otherwise
	// two postings for the same client on different sales both chain off the
	// same predecessor.
	var sequence []string
	f.clientRepo.mockLockForUpdate = func(ctx context.Context, tx *gorm.DB, tenantID, id uint) error {
		sequence = append(sequence, "lock")
		return nil
	}
	f.movementRepo.mockLastBalance = func(ctx context.Context, tx *gorm.DB, tenantID, clientID uint) (decimal.Decimal, error) {
		sequence = append(sequence, "read-balance")
		return dec("1000"), nil
	}

	_, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("400"),
		PaymentMethodID: 1,
		AccountID:       1,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"lock", "read-balance"}, sequence)
}

func TestPaymentService_Register_IdempotentReplay(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       5,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("700"),
	}
	f.paymentRepo.mockFindByIdempotency = func(ctx context.Context, tenantID uint, key string) (*models.Payment, error) {
		return &models.Payment{
			ID:             42,
			ReceiptNumber:  "REC-42",
			SaleID:         10,
			Amount:         dec("300"),
			FinancialCost:  dec("6.00"),
			NetAmount:      dec("294.00"),
			IdempotencyKey: key,
		}, nil
	}

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("300"),
		PaymentMethodID: 2,
		AccountID:       1,
		IdempotencyKey:  "retry-key-1",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(42), result.PaymentID)
	assert.Equal(t, "REC-42", result.ReceiptNumber)
	assert.True(t, result.RemainingBalance.Equal(dec("700")))

	// The replay short-circuits before any write.
	assert.Empty(t, f.paymentRepo.created)
	assert.Empty(t, f.movementRepo.created)
	assert.Empty(t, f.treasuryRepo.accountCredits)
}

func TestPaymentService_Register_RejectsNonPositiveAmount(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("0"),
		PaymentMethodID: 1,
		AccountID:       1,
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestPaymentService_Register_SaleBelongsToAnotherClient(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       6,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("1000"),
	}

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("100"),
		PaymentMethodID: 1,
		AccountID:       1,
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestPaymentService_Register_UnknownSale(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          999,
		Amount:          dec("100"),
		PaymentMethodID: 1,
		AccountID:       1,
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestPaymentService_Register_CostRounding(t *testing.T) {
	f := newEngineFixture(t)

	f.saleRepo.sale = &models.Sale{
		ID:             10,
		TenantID:       1,
		ClientID:       5,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("1000"),
	}
	f.ruleRepo.methods[2] = &models.PaymentMethodType{ID: 2, Name: "Tarjeta"}
	f.ruleRepo.rules[ruleKey(2, nil)] = &models.FinancialCostRule{
		PaymentMethodID: 2,
		Percentage:      dec("3.33"),
	}

	result, err := f.svc.Register(context.Background(), 1, 99, RegisterPaymentRequest{
		ClientID:        5,
		SaleID:          10,
		Amount:          dec("99.99"),
		PaymentMethodID: 2,
		AccountID:       1,
	})

	require.NoError(t, err)
	// 99.99 * 3.33% = 3.329667, rounds to 3.33
	assert.True(t, result.FinancialCost.Equal(dec("3.33")))
	assert.True(t, result.NetAmount.Equal(dec("96.66")))
}
