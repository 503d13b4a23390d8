package gormdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mirola777/payhook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockCount(t *testing.T, tm *TransactionManager) int64 {
	var n int64
	require.NoError(t, tm.db.Model(&domain.EventLock{}).Count(&n).Error)
	return n
}

func newLock(id string) *domain.EventLock {
	return &domain.EventLock{EventID: id, Owner: "owner", ExpiresAt: time.Now().Add(time.Minute)}
}

func TestRunInTransaction_CommitsOnSuccess(t *testing.T) {
	db, err := NewTestConnection()
	require.NoError(t, err)
	tm := NewTransactionManager(db).(*TransactionManager)

	err = tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		assert.NotSame(t, db, ExtractTx(ctx, db))
		return ExtractTx(ctx, db).Create(newLock("evt_1")).Error
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), lockCount(t, tm))
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	db, err := NewTestConnection()
	require.NoError(t, err)
	tm := NewTransactionManager(db).(*TransactionManager)
	boom := errors.New("boom")

	err = tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, ExtractTx(ctx, db).Create(newLock("evt_1")).Error)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), lockCount(t, tm))
}

func TestRunInTransaction_NestedFailureRollsBackOnlyInnerWork(t *testing.T) {
	db, err := NewTestConnection()
	require.NoError(t, err)
	tm := NewTransactionManager(db).(*TransactionManager)
	boom := errors.New("boom")

	err = tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		if err := ExtractTx(ctx, db).Create(newLock("evt_outer")).Error; err != nil {
			return err
		}
		inner := tm.RunInTransaction(ctx, func(ctx context.Context) error {
			require.NoError(t, ExtractTx(ctx, db).Create(newLock("evt_inner")).Error)
			return boom
		})
		assert.ErrorIs(t, inner, boom)
		return nil
	})

	require.NoError(t, err)
	var ids []string
	require.NoError(t, db.Model(&domain.EventLock{}).Pluck("event_id", &ids).Error)
	assert.Equal(t, []string{"evt_outer"}, ids)
}

func TestExtractTx_FallsBackOutsideTransaction(t *testing.T) {
	db, err := NewTestConnection()
	require.NoError(t, err)

	assert.Same(t, db, ExtractTx(context.Background(), db))
}
