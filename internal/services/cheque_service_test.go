package services

import (
	"context"
	"testing"
	"time"

	"github.com/induso/cobranzas-api/internal/config"
	"github.com/induso/cobranzas-api/internal/jobs"
	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mock ChequeRepository with a mutable cheque
type mockChequeStore struct {
	repository.ChequeRepository
	cheque  *models.Cheque
	updated []*models.Cheque
}

func (m *mockChequeStore) FindByID(ctx context.Context, tenantID, id uint) (*models.Cheque, error) {
	if m.cheque == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.cheque, nil
}

func (m *mockChequeStore) Create(ctx context.Context, cheque *models.Cheque) error {
	cheque.ID = 1
	m.cheque = cheque
	return nil
}

func (m *mockChequeStore) Update(ctx context.Context, cheque *models.Cheque) error {
	m.updated = append(m.updated, cheque)
	return nil
}

type mockUserRepo struct {
	repository.UserRepository
	users []models.User
}

func (m *mockUserRepo) List(ctx context.Context, tenantID uint, query *repository.ListQuery) ([]models.User, int64, error) {
	return m.users, int64(len(m.users)), nil
}

type chequeFixture struct {
	svc         *ChequeService
	store       *mockChequeStore
	paymentRepo *mockPaymentRepo
}

func newChequeFixture(t *testing.T) *chequeFixture {
	t.Helper()

	f := &chequeFixture{
		store:       &mockChequeStore{},
		paymentRepo: &mockPaymentRepo{},
	}
	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	f.svc = NewChequeService(
		f.store,
		f.paymentRepo,
		&mockUserRepo{},
		NewEmailService(&config.Config{}),
		NewAuditService(nil),
		worker,
	)
	return f
}

func chequeRequest() ChequeRequest {
	return ChequeRequest{
		Number:  "00123456",
		Amount:  dec("5000"),
		BankID:  7,
		Issuer:  "Constructora Sur SA",
		CUIT:    "30-11222333-4",
		DueDate: time.Now().AddDate(0, 1, 0),
	}
}

func TestChequeService_Create_StartsAsCargado(t *testing.T) {
	f := newChequeFixture(t)

	cheque, err := f.svc.Create(context.Background(), 1, 99, chequeRequest())
	require.NoError(t, err)
	assert.Equal(t, models.ChequeStatusCargado, cheque.Status)
}

func TestChequeService_Create_RejectsNonPositiveAmount(t *testing.T) {
	f := newChequeFixture(t)

	req := chequeRequest()
	req.Amount = dec("0")
	_, err := f.svc.Create(context.Background(), 1, 99, req)
	assert.True(t, IsValidation(err))
}

func TestChequeService_Update_FreezesAmountWhenLinkedToPayment(t *testing.T) {
	f := newChequeFixture(t)
	f.store.cheque = &models.Cheque{
		ID:     1,
		Amount: dec("5000"),
		BankID: 7,
		Status: models.ChequeStatusCargado,
	}
	f.paymentRepo.mockExistsByCheque = func(ctx context.Context, tenantID, chequeID uint) (bool, error) {
		return true, nil
	}

	req := chequeRequest()
	req.Amount = dec("6000")
	_, err := f.svc.Update(context.Background(), 1, 99, 1, req)
	assert.True(t, IsValidation(err))

	req = chequeRequest()
	req.BankID = 8
	_, err = f.svc.Update(context.Background(), 1, 99, 1, req)
	assert.True(t, IsValidation(err))

	// Other fields stay editable.
	req = chequeRequest()
	req.Issuer = "Otro Librador SRL"
	updated, err := f.svc.Update(context.Background(), 1, 99, 1, req)
	require.NoError(t, err)
	assert.Equal(t, "Otro Librador SRL", updated.Issuer)
}

func TestChequeService_Deliver_SetsRecipient(t *testing.T) {
	f := newChequeFixture(t)
	f.store.cheque = &models.Cheque{ID: 1, Status: models.ChequeStatusCargado}

	cheque, err := f.svc.Deliver(context.Background(), 1, 99, 1, "Proveedor Norte")
	require.NoError(t, err)
	assert.Equal(t, models.ChequeStatusEntregado, cheque.Status)
	require.NotNil(t, cheque.Recipient)
	assert.Equal(t, "Proveedor Norte", *cheque.Recipient)
	require.Len(t, f.store.updated, 1)
}

func TestChequeService_Transition_FromTerminalState(t *testing.T) {
	f := newChequeFixture(t)
	f.store.cheque = &models.Cheque{ID: 1, Status: models.ChequeStatusCobrado}

	_, err := f.svc.Deliver(context.Background(), 1, 99, 1, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, f.store.updated)
}

func TestChequeService_Reject_RecordsReason(t *testing.T) {
	f := newChequeFixture(t)
	f.store.cheque = &models.Cheque{ID: 1, Status: models.ChequeStatusCargado}

	cheque, err := f.svc.Reject(context.Background(), 1, 99, 1, "sin fondos")
	require.NoError(t, err)
	assert.Equal(t, models.ChequeStatusRechazado, cheque.Status)
	require.NotNil(t, cheque.Observations)
	assert.Equal(t, "sin fondos", *cheque.Observations)
}

func TestChequeService_Void(t *testing.T) {
	f := newChequeFixture(t)
	f.store.cheque = &models.Cheque{ID: 1, Status: models.ChequeStatusCargado}

	cheque, err := f.svc.Void(context.Background(), 1, 99, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ChequeStatusAnulado, cheque.Status)
}

func TestChequeService_NotFound(t *testing.T) {
	f := newChequeFixture(t)

	_, err := f.svc.Cash(context.Background(), 1, 99, 42)
	assert.True(t, IsNotFound(err))
}
