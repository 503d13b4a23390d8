package application

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	gormdb "github.com/mirola777/payhook/internal/infrastructure/gorm"
	"github.com/mirola777/payhook/internal/infrastructure/gorm/repositories"
	"github.com/mirola777/payhook/internal/infrastructure/provider"
	"github.com/mirola777/payhook/internal/utils/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gormdb.NewTestConnection()
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormdb.Close(db) })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                  "test",
		LockBackend:             "database",
		LockTTL:                 30 * time.Second,
		LockCleanupInterval:     time.Hour,
		PaymentProvider:         provider.SimulatorName,
		WebhookTolerance:        5 * time.Minute,
		CommissionRate:          decimal.NewNullDecimal(decimal.RequireFromString("0.05")),
		CommissionMinAmount:     decimal.NewNullDecimal(decimal.RequireFromString("10")),
		BreakerFailureThreshold: 5,
		BreakerResetTimeout:     time.Minute,
		NotifyTransport:         "http",
		NotifyMaxAttempts:       3,
		NotifyBackoffBase:       time.Millisecond,
		NotifyTimeout:           time.Second,
		OrderServiceURL:         "http://localhost:8081",
	}
}

func TestNewContainer_WiresDefaults(t *testing.T) {
	c, err := NewContainer(testDB(t), testConfig(), zap.NewNop())
	require.NoError(t, err)

	assert.NotNil(t, c.Payments)
	assert.NotNil(t, c.Webhooks)
	assert.NotNil(t, c.Commissions)
	assert.NotNil(t, c.Dispatcher)
	assert.Contains(t, c.Checks, "database")
	assert.NoError(t, c.Checks["database"](context.Background()))

	header, ok := c.Webhooks.SignatureHeader(provider.SimulatorName)
	assert.True(t, ok)
	assert.Equal(t, provider.SimulatorSignatureHeader, header)

	_, ok = c.Webhooks.SignatureHeader(provider.MidtransName)
	assert.False(t, ok)

	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestNewContainer_RedisLockBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.LockBackend = "redis"
	cfg.RedisAddr = mr.Addr()

	c, err := NewContainer(testDB(t), cfg, zap.NewNop())
	require.NoError(t, err)

	require.Contains(t, c.Checks, "redis")
	assert.NoError(t, c.Checks["redis"](context.Background()))
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestNewContainer_MidtransVerifierWhenKeySet(t *testing.T) {
	cfg := testConfig()
	cfg.MidtransServerKey = "SB-Mid-server-test"

	c, err := NewContainer(testDB(t), cfg, zap.NewNop())
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	_, ok := c.Webhooks.SignatureHeader(provider.MidtransName)
	assert.True(t, ok)
}

func TestNewContainer_RejectsUnknownSettings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *config.Config)
	}{
		{name: "lock backend", modify: func(cfg *config.Config) { cfg.LockBackend = "zookeeper" }},
		{name: "notify transport", modify: func(cfg *config.Config) { cfg.NotifyTransport = "smtp" }},
		{name: "payment provider", modify: func(cfg *config.Config) { cfg.PaymentProvider = "paypal" }},
		{name: "midtrans without key", modify: func(cfg *config.Config) { cfg.PaymentProvider = provider.MidtransName }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(cfg)

			c, err := NewContainer(testDB(t), cfg, zap.NewNop())

			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestCleanupLoop_DeletesExpiredLocks(t *testing.T) {
	db := testDB(t)
	repo := repositories.NewLockRepo(db)
	ok, err := repo.TryLock(context.Background(), "evt_old", "owner", time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	time.Sleep(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		startCleanupLoop(ctx, repo, 5*time.Millisecond, zap.NewNop())
		close(done)
	}()

	assert.Eventually(t, func() bool {
		var n int64
		return db.Table("event_locks").Count(&n).Error == nil && n == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
