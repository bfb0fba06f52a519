package services

import (
	"context"
	"testing"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mock ClientRepository backed by a single client
type mockClientStore struct {
	repository.ClientRepository
	client  *models.Client
	balance decimal.Decimal
	locked  []uint
}

func (m *mockClientStore) FindByID(ctx context.Context, tenantID, id uint) (*models.Client, error) {
	if m.client == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.client, nil
}

func (m *mockClientStore) Balance(ctx context.Context, tenantID, id uint) (decimal.Decimal, error) {
	return m.balance, nil
}

func (m *mockClientStore) LockForUpdate(ctx context.Context, tx *gorm.DB, tenantID, id uint) error {
	m.locked = append(m.locked, id)
	return nil
}

type mockPendingSaleRepo struct {
	repository.SaleRepository
	pending []models.Sale
}

func (m *mockPendingSaleRepo) FindPendingByClient(ctx context.Context, tenantID, clientID uint) ([]models.Sale, error) {
	return m.pending, nil
}

func TestClientService_AccountSummary(t *testing.T) {
	store := &mockClientStore{
		client:  &models.Client{ID: 5, Name: "Cliente Test"},
		balance: dec("1234.56"),
	}
	saleRepo := &mockPendingSaleRepo{
		pending: []models.Sale{{ID: 1}, {ID: 2}},
	}
	svc := NewClientService(store, saleRepo, &mockMovementRepo{}, NewAuditService(nil), nil)

	summary, err := svc.AccountSummary(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, summary.Balance.Equal(dec("1234.56")))
	assert.EqualValues(t, 2, summary.PendingSales)
}

func TestClientService_AccountSummary_UnknownClient(t *testing.T) {
	svc := NewClientService(&mockClientStore{}, &mockPendingSaleRepo{}, &mockMovementRepo{}, NewAuditService(nil), nil)

	_, err := svc.AccountSummary(context.Background(), 1, 5)
	assert.True(t, IsNotFound(err))
}

func TestClientService_AddManualMovement_ChainsBalance(t *testing.T) {
	store := &mockClientStore{client: &models.Client{ID: 5}}
	movements := &mockMovementRepo{lastBalance: dec("100")}
	svc := NewClientService(store, &mockPendingSaleRepo{}, movements, NewAuditService(nil), nil)

	movement, err := svc.AddManualMovement(context.Background(), 1, 99, 5, ManualMovementRequest{
		Detail: "Nota de crédito",
		Amount: dec("-50"),
	})
	require.NoError(t, err)
	assert.True(t, movement.Balance.Equal(dec("50")))
	assert.Equal(t, models.MovementTypeManual, movement.MovementType)

	// The append runs under the client row lock so concurrent postings cannot
	// chain off the same predecessor balance.
	assert.Equal(t, []uint{5}, store.locked)
}

func TestClientService_AddManualMovement_RejectsZero(t *testing.T) {
	store := &mockClientStore{client: &models.Client{ID: 5}}
	svc := NewClientService(store, &mockPendingSaleRepo{}, &mockMovementRepo{}, NewAuditService(nil), nil)

	_, err := svc.AddManualMovement(context.Background(), 1, 99, 5, ManualMovementRequest{
		Detail: "Nada",
		Amount: decimal.Zero,
	})
	assert.True(t, IsValidation(err))
}
