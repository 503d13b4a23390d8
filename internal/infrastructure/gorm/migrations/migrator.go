package migrations

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Migration struct {
	ID      string
	Migrate func(tx *gorm.DB) error
}

type MigrationRecord struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	MigrationID string `gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

var registry []Migration

func Register(m Migration) {
	registry = append(registry, m)
}

func Run(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range registry {
		var count int64
		if err := db.Model(&MigrationRecord{}).Where("migration_id = ?", m.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		log.Info("running migration", zap.String("migration", m.ID))
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Migrate(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{MigrationID: m.ID}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", m.ID, err)
		}
		log.Info("completed migration", zap.String("migration", m.ID))
	}
	return nil
}

func Applied(db *gorm.DB) ([]string, error) {
	var records []MigrationRecord
	if err := db.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.MigrationID)
	}
	return ids, nil
}
