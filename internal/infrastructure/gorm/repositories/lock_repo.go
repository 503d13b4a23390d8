package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/mirola777/payhook/internal/domain"
	gormdb "github.com/mirola777/payhook/internal/infrastructure/gorm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockRepo is the database-backed domain.LockStore. A row in event_locks is a
// held lock until its expires_at passes.
type LockRepo struct {
	db *gorm.DB
}

func NewLockRepo(db *gorm.DB) *LockRepo {
	return &LockRepo{db: db}
}

func (r *LockRepo) conn(ctx context.Context) *gorm.DB {
	return gormdb.ExtractTx(ctx, r.db).WithContext(ctx)
}

func (r *LockRepo) TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()

	err := r.conn(ctx).
		Where("event_id = ? AND expires_at < ?", key, now).
		Delete(&domain.EventLock{}).Error
	if err != nil {
		return false, fmt.Errorf("reclaim expired lock: %w", err)
	}

	result := r.conn(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.EventLock{EventID: key, Owner: owner, ExpiresAt: now.Add(ttl)})
	if result.Error != nil {
		return false, fmt.Errorf("insert lock: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *LockRepo) Unlock(ctx context.Context, key, owner string) error {
	return r.conn(ctx).
		Where("event_id = ? AND owner = ?", key, owner).
		Delete(&domain.EventLock{}).Error
}

func (r *LockRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.conn(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&domain.EventLock{})
	return result.RowsAffected, result.Error
}
