package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMovementStore struct {
	repository.MovementRepository
	movements []models.AccountMovement
}

func (m *mockMovementStore) FindByClient(ctx context.Context, tenantID, clientID uint) ([]models.AccountMovement, error) {
	return m.movements, nil
}

func newExportFixture() *ExportService {
	store := &mockClientStore{
		client:  &models.Client{ID: 5, Name: "Acme SRL", CUIT: "30-11111111-1"},
		balance: dec("500.00"),
	}
	movements := &mockMovementStore{
		movements: []models.AccountMovement{
			{
				MovementDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				Detail:       "Factura A 0001",
				Amount:       dec("1500.00"),
				Balance:      dec("1500.00"),
				MovementType: models.MovementTypeSale,
				User:         models.User{FullName: "Cajero Uno"},
			},
			{
				MovementDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
				Detail:       "Pago recibo REC-1",
				Amount:       dec("-1000.00"),
				Balance:      dec("500.00"),
				MovementType: models.MovementTypePayment,
				User:         models.User{FullName: "Cajero Uno"},
			},
		},
	}
	clientSvc := NewClientService(store, &mockPendingSaleRepo{}, movements, NewAuditService(nil), nil)
	return NewExportService(clientSvc)
}

func TestExportService_StatementPDF(t *testing.T) {
	svc := newExportFixture()

	data, filename, err := svc.StatementPDF(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Contains(t, filename, "cuenta_corriente_5_")
	assert.Contains(t, filename, ".pdf")
}

func TestExportService_MovementsXLSX(t *testing.T) {
	svc := newExportFixture()

	data, filename, err := svc.MovementsXLSX(context.Background(), 1, 5)
	require.NoError(t, err)
	// XLSX files are zip archives
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
	assert.Contains(t, filename, "movimientos_5_")
	assert.Contains(t, filename, ".xlsx")
}

func TestExportService_UnknownClient(t *testing.T) {
	clientSvc := NewClientService(&mockClientStore{}, &mockPendingSaleRepo{}, &mockMovementStore{}, NewAuditService(nil), nil)
	svc := NewExportService(clientSvc)

	_, _, err := svc.StatementPDF(context.Background(), 1, 99)
	assert.True(t, IsNotFound(err))
}
