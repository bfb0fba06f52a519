package database

import (
	"fmt"
	"os"
	"time"

	"github.com/induso/cobranzas-api/internal/models"
	pkgLogger "github.com/induso/cobranzas-api/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*gorm.DB, error) {
	// Configure GORM logger
	logLevel := logger.Silent
	if os.Getenv("ENVIRONMENT") != "production" {
		logLevel = logger.Info
	}

	gormLogger := pkgLogger.NewGormLogger(
		logLevel,
		200*time.Millisecond,
	)

	// Open database connection
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true, // Improve performance
		PrepareStmt:            true, // Cache prepared statements
		TranslateError:         true, // Surface unique violations as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate applies the schema for every persisted model. Order matters only
// for readability; GORM resolves foreign keys after all tables exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Client{},
		&models.Sale{},
		&models.PaymentMethodType{},
		&models.Bank{},
		&models.Account{},
		&models.CashRegister{},
		&models.FinancialCostRule{},
		&models.Cheque{},
		&models.Payment{},
		&models.AccountMovement{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	// One rule per (tenant, method, bank). bank_id NULL marks the general
	// rule; the COALESCE folds it into the key so two general rules for the
	// same method also collide. Expression indexes cannot be declared with
	// struct tags.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_rules_tenant_method_bank
		ON financial_cost_rules (tenant_id, payment_method_id, COALESCE(bank_id, 0))`).Error
}
