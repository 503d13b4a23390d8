package migrations

import (
	"github.com/mirola777/payhook/internal/infrastructure/gorm/models"
	"gorm.io/gorm"
)

func init() {
	Register(Migration{
		ID: "001_create_payments",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.PaymentRow{})
		},
	})
}
