package services

import (
	"github.com/induso/cobranzas-api/internal/config"
	"github.com/induso/cobranzas-api/internal/jobs"
	"github.com/induso/cobranzas-api/internal/repository"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth     *AuthService
	Client   *ClientService
	Sale     *SaleService
	Payment  *PaymentService
	Rule     *RuleService
	Cheque   *ChequeService
	Treasury *TreasuryService
	Export   *ExportService
	Email    *EmailService
	Audit    *AuditService
	Job      *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config, db *gorm.DB) *Services {
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)

	ruleSvc := NewRuleService(repos.Rule, repos.Treasury, auditSvc)
	clientSvc := NewClientService(repos.Client, repos.Sale, repos.Movement, auditSvc, db)

	return &Services{
		Auth:     NewAuthService(repos.User, repos.RefreshToken, cfg),
		Client:   clientSvc,
		Sale:     NewSaleService(repos.Sale, repos.Client, repos.Movement, auditSvc, db),
		Payment:  NewPaymentService(repos.Payment, repos.Client, repos.Sale, repos.Movement, repos.Cheque, repos.Treasury, ruleSvc, emailSvc, auditSvc, worker, db),
		Rule:     ruleSvc,
		Cheque:   NewChequeService(repos.Cheque, repos.Payment, repos.User, emailSvc, auditSvc, worker),
		Treasury: NewTreasuryService(repos.Treasury, auditSvc),
		Export:   NewExportService(clientSvc),
		Email:    emailSvc,
		Audit:    auditSvc,
		Job:      NewJobService(worker),
	}
}
