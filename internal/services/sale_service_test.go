package services

import (
	"context"
	"errors"
	"testing"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mock SaleRepository with in-memory storage
type mockSaleStore struct {
	repository.SaleRepository
	sale              *models.Sale
	created           []*models.Sale
	updated           []*models.Sale
	mockUpdateGuarded func(ctx context.Context, sale *models.Sale, lockVersion int) (int64, error)
}

func (m *mockSaleStore) FindByID(ctx context.Context, tenantID, id uint) (*models.Sale, error) {
	if m.sale == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.sale, nil
}

func (m *mockSaleStore) Create(ctx context.Context, tx *gorm.DB, sale *models.Sale) error {
	sale.ID = uint(len(m.created) + 1)
	m.created = append(m.created, sale)
	return nil
}

func (m *mockSaleStore) UpdateGuarded(ctx context.Context, sale *models.Sale, lockVersion int) (int64, error) {
	if m.mockUpdateGuarded != nil {
		return m.mockUpdateGuarded(ctx, sale, lockVersion)
	}
	m.updated = append(m.updated, sale)
	return 1, nil
}

func newSaleFixture() (*SaleService, *mockSaleStore, *mockMovementRepo, *mockClientRepo) {
	store := &mockSaleStore{}
	movements := &mockMovementRepo{}
	clients := &mockClientRepo{}
	svc := NewSaleService(store, clients, movements, NewAuditService(nil), nil)
	return svc, store, movements, clients
}

func TestSaleService_Create_PostsDebitMovement(t *testing.T) {
	svc, store, movements, _ := newSaleFixture()
	movements.lastBalance = dec("200")

	sale, err := svc.Create(context.Background(), 1, 99, SaleRequest{
		ClientID:    5,
		Description: "Materiales de obra",
		TotalAmount: dec("1500"),
	})

	require.NoError(t, err)
	assert.True(t, sale.PendingBalance.Equal(dec("1500")))
	require.Len(t, store.created, 1)

	// Sale debits grow the debt: positive movement, balance chained forward.
	require.Len(t, movements.created, 1)
	movement := movements.created[0]
	assert.True(t, movement.Amount.Equal(dec("1500")))
	assert.True(t, movement.Balance.Equal(dec("1700")))
	assert.Equal(t, models.MovementTypeSale, movement.MovementType)
}

func TestSaleService_Create_RejectsNonPositiveTotal(t *testing.T) {
	svc, _, _, _ := newSaleFixture()

	_, err := svc.Create(context.Background(), 1, 99, SaleRequest{
		ClientID:    5,
		Description: "Venta inválida",
		TotalAmount: decimal.Zero,
	})
	assert.True(t, IsValidation(err))
}

func TestSaleService_Create_LocksClientBeforeBalanceRead(t *testing.T) {
	svc, _, movements, clients := newSaleFixture()

	var sequence []string
	clients.mockLockForUpdate = func(ctx context.Context, tx *gorm.DB, tenantID, id uint) error {
		sequence = append(sequence, "lock")
		return nil
	}
	movements.mockLastBalance = func(ctx context.Context, tx *gorm.DB, tenantID, clientID uint) (decimal.Decimal, error) {
		sequence = append(sequence, "read-balance")
		return decimal.Zero, nil
	}

	_, err := svc.Create(context.Background(), 1, 99, SaleRequest{
		ClientID:    5,
		Description: "Servicio mensual",
		TotalAmount: dec("800"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"lock", "read-balance"}, sequence)
}

func TestSaleService_Create_LedgerWriteFailureFailsTheSale(t *testing.T) {
	svc, _, movements, _ := newSaleFixture()
	movements.mockCreate = func(ctx context.Context, tx *gorm.DB, movement *models.AccountMovement) error {
		return errors.New("connection reset")
	}

	// The sale row and its ledger debit share one transaction: a failed
	// movement insert must fail the whole creation, never leave a sale with
	// no matching debit.
	sale, err := svc.Create(context.Background(), 1, 99, SaleRequest{
		ClientID:    5,
		Description: "Materiales de obra",
		TotalAmount: dec("1500"),
	})

	assert.Nil(t, sale)
	require.Error(t, err)
	assert.True(t, IsStorage(err))
}

func TestSaleService_AdministrativeEdit_RespectsAppliedAmount(t *testing.T) {
	svc, store, _, _ := newSaleFixture()
	store.sale = &models.Sale{
		ID:             10,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("400"), // 600 already collected
		LockVersion:    2,
	}

	// New total below what was collected is rejected.
	_, err := svc.AdministrativeEdit(context.Background(), 1, 99, 10, "ajuste", dec("500"))
	assert.True(t, IsValidation(err))

	// New total above keeps the applied amount and rebases the pending balance.
	sale, err := svc.AdministrativeEdit(context.Background(), 1, 99, 10, "ajuste", dec("900"))
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(dec("900")))
	assert.True(t, sale.PendingBalance.Equal(dec("300")))
	assert.Equal(t, 3, sale.LockVersion, "edit bumps the lock version to fence concurrent payments")
}

func TestSaleService_AdministrativeEdit_ConcurrentPaymentConflict(t *testing.T) {
	svc, store, _, _ := newSaleFixture()
	store.sale = &models.Sale{
		ID:             10,
		TotalAmount:    dec("1000"),
		PendingBalance: dec("1000"),
		LockVersion:    2,
	}
	store.mockUpdateGuarded = func(ctx context.Context, sale *models.Sale, lockVersion int) (int64, error) {
		// A payment committed after the edit read the sale: the lock version
		// no longer matches, so the guarded update touches zero rows.
		return 0, nil
	}

	// The stale edit must surface a conflict instead of silently restoring
	// the pending balance the payment already decremented.
	sale, err := svc.AdministrativeEdit(context.Background(), 1, 99, 10, "ajuste", dec("1000"))

	assert.Nil(t, sale)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Empty(t, store.updated)
}

func TestSaleService_AdministrativeEdit_UnknownSale(t *testing.T) {
	svc, _, _, _ := newSaleFixture()

	_, err := svc.AdministrativeEdit(context.Background(), 1, 99, 42, "x", dec("100"))
	assert.True(t, IsNotFound(err))
}
