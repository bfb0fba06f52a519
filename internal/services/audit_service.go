package services

import (
	"context"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/pkg/logger"
	"gorm.io/gorm"
)

// AuditService writes audit log entries. Failures are logged, never
// propagated: an audit write must not fail the business operation.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends an audit entry
func (s *AuditService) Record(ctx context.Context, tenantID, userID uint, action, entity string, entityID uint, details string) {
	if s.db == nil {
		return
	}
	entry := &models.AuditLog{
		TenantID: tenantID,
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Error("Failed to write audit log", "action", action, "entity", entity, "error", err)
	}
}

// List returns audit entries for the tenant, newest first
func (s *AuditService) List(ctx context.Context, tenantID uint, limit int) ([]models.AuditLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var entries []models.AuditLog
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
