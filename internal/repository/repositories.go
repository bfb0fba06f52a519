package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	RefreshToken RefreshTokenRepository
	Client       ClientRepository
	Sale         SaleRepository
	Movement     MovementRepository
	Payment      PaymentRepository
	Rule         RuleRepository
	Cheque       ChequeRepository
	Treasury     TreasuryRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Client:       NewClientRepository(db),
		Sale:         NewSaleRepository(db),
		Movement:     NewMovementRepository(db),
		Payment:      NewPaymentRepository(db),
		Rule:         NewRuleRepository(db),
		Cheque:       NewChequeRepository(db),
		Treasury:     NewTreasuryRepository(db),
	}
}
