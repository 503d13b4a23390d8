package migrations

import (
	"github.com/mirola777/payhook/internal/domain"
	"gorm.io/gorm"
)

func init() {
	Register(Migration{
		ID: "004_create_event_locks",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&domain.EventLock{})
		},
	})
}
