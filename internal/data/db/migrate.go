package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/contractpay-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

// EnsureBillingIndexes adds composite indexes GORM tags cannot express.
func EnsureBillingIndexes(db *gorm.DB) error {
	// Outstanding totals and unpaid listings filter jobs by contract and paid flag.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_jobs_contract_paid
		ON jobs (contract_id, paid);
	`).Error; err != nil {
		return fmt.Errorf("create idx_jobs_contract_paid: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_contracts_client_status
		ON contracts (client_id, status);
	`).Error; err != nil {
		return fmt.Errorf("create idx_contracts_client_status: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_contracts_contractor_status
		ON contracts (contractor_id, status);
	`).Error; err != nil {
		return fmt.Errorf("create idx_contracts_contractor_status: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating billing tables...", "driver", s.driver)
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureBillingIndexes(s.db); err != nil {
		s.log.Error("Billing index migration failed", "error", err)
		return err
	}
	return nil
}
