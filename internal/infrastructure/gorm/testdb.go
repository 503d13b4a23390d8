package gormdb

import (
	"github.com/mirola777/payhook/internal/domain"
	"github.com/mirola777/payhook/internal/infrastructure/gorm/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewTestConnection() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// every pooled connection to :memory: would open its own empty database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.PaymentRow{},
		&domain.WebhookEventRecord{},
		&domain.CommissionRecord{},
		&domain.EventLock{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}
