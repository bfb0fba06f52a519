package services

import (
	"context"

	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/internal/repository"
)

// TreasuryService manages the bank / account / cash-register catalogs.
// Balances are read-only here; only the payment transaction moves them.
type TreasuryService struct {
	repo     repository.TreasuryRepository
	auditSvc *AuditService
}

// NewTreasuryService creates a new treasury service
func NewTreasuryService(repo repository.TreasuryRepository, auditSvc *AuditService) *TreasuryService {
	return &TreasuryService{repo: repo, auditSvc: auditSvc}
}

// CreateBank adds a bank
func (s *TreasuryService) CreateBank(ctx context.Context, tenantID, userID uint, name string) (*models.Bank, error) {
	if name == "" {
		return nil, NewValidationError("name", "es requerido")
	}
	bank := &models.Bank{TenantID: tenantID, Name: name}
	if err := s.repo.CreateBank(ctx, bank); err != nil {
		return nil, NewStorageError("create bank", err)
	}
	s.auditSvc.Record(ctx, tenantID, userID, "CREATE", "Bank", bank.ID, name)
	return bank, nil
}

// ListBanks returns all banks for the tenant
func (s *TreasuryService) ListBanks(ctx context.Context, tenantID uint) ([]models.Bank, error) {
	banks, err := s.repo.ListBanks(ctx, tenantID)
	if err != nil {
		return nil, NewStorageError("list banks", err)
	}
	return banks, nil
}

// CreateAccount adds a destination account
func (s *TreasuryService) CreateAccount(ctx context.Context, tenantID, userID uint, name string, bankID *uint) (*models.Account, error) {
	if name == "" {
		return nil, NewValidationError("name", "es requerido")
	}
	if bankID != nil {
		if _, err := s.repo.FindBankByID(ctx, tenantID, *bankID); err != nil {
			return nil, asLookupError("banco", *bankID, "find bank", err)
		}
	}
	account := &models.Account{TenantID: tenantID, Name: name, BankID: bankID}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, NewStorageError("create account", err)
	}
	s.auditSvc.Record(ctx, tenantID, userID, "CREATE", "Account", account.ID, name)
	return account, nil
}

// ListAccounts returns all accounts for the tenant
func (s *TreasuryService) ListAccounts(ctx context.Context, tenantID uint) ([]models.Account, error) {
	accounts, err := s.repo.ListAccounts(ctx, tenantID)
	if err != nil {
		return nil, NewStorageError("list accounts", err)
	}
	return accounts, nil
}

// CreateCashRegister adds a till
func (s *TreasuryService) CreateCashRegister(ctx context.Context, tenantID, userID uint, name string) (*models.CashRegister, error) {
	if name == "" {
		return nil, NewValidationError("name", "es requerido")
	}
	register := &models.CashRegister{TenantID: tenantID, Name: name}
	if err := s.repo.CreateCashRegister(ctx, register); err != nil {
		return nil, NewStorageError("create cash register", err)
	}
	s.auditSvc.Record(ctx, tenantID, userID, "CREATE", "CashRegister", register.ID, name)
	return register, nil
}

// ListCashRegisters returns all tills for the tenant
func (s *TreasuryService) ListCashRegisters(ctx context.Context, tenantID uint) ([]models.CashRegister, error) {
	registers, err := s.repo.ListCashRegisters(ctx, tenantID)
	if err != nil {
		return nil, NewStorageError("list cash registers", err)
	}
	return registers, nil
}
