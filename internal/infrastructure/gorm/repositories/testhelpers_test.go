package repositories

import (
	"testing"

	gormdb "github.com/mirola777/payhook/internal/infrastructure/gorm"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gormdb.NewTestConnection()
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormdb.Close(db) })
	return db
}
