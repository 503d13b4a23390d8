package migrations

import (
	"github.com/mirola777/payhook/internal/domain"
	"gorm.io/gorm"
)

func init() {
	Register(Migration{
		ID: "003_create_commissions",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&domain.CommissionRecord{})
		},
	})
}
