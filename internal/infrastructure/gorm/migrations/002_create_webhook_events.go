package migrations

import (
	"github.com/mirola777/payhook/internal/domain"
	"gorm.io/gorm"
)

func init() {
	Register(Migration{
		ID: "002_create_webhook_events",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&domain.WebhookEventRecord{})
		},
	})
}
