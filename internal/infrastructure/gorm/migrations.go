package gormdb

import (
	"github.com/mirola777/payhook/internal/infrastructure/gorm/migrations"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	return migrations.Run(db, log)
}
