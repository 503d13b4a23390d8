package migrations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMigrationRecordTableName(t *testing.T) {
	record := MigrationRecord{}
	assert.Equal(t, "schema_migrations", record.TableName())
}

func TestRegisterAddsMigrationToRegistry(t *testing.T) {
	original := registry
	defer func() { registry = original }()

	registry = nil

	Register(Migration{ID: "test_001"})
	assert.Len(t, registry, 1)
	assert.Equal(t, "test_001", registry[0].ID)

	Register(Migration{ID: "test_002"})
	assert.Len(t, registry, 2)
	assert.Equal(t, "test_002", registry[1].ID)
}

func TestRegistryPreservesOrdering(t *testing.T) {
	original := registry
	defer func() { registry = original }()

	registry = nil

	ids := []string{"alpha", "beta", "gamma", "delta"}
	for _, id := range ids {
		Register(Migration{ID: id})
	}

	assert.Len(t, registry, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, registry[i].ID)
	}
}

func TestRunAppliesRegisteredMigrationsOnce(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Run(db, zap.NewNop()))
	require.NoError(t, Run(db, zap.NewNop()))

	applied, err := Applied(db)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"001_create_payments",
		"002_create_webhook_events",
		"003_create_commissions",
		"004_create_event_locks",
	}, applied)

	for _, table := range []string{"payments", "webhook_events", "commissions", "event_locks"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestRunStopsOnFailedMigration(t *testing.T) {
	original := registry
	defer func() { registry = original }()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	registry = []Migration{{
		ID:      "broken",
		Migrate: func(tx *gorm.DB) error { return errors.New("boom") },
	}}

	err = Run(db, zap.NewNop())
	assert.ErrorContains(t, err, "migration broken failed")

	applied, err := Applied(db)
	require.NoError(t, err)
	assert.Empty(t, applied)
}
