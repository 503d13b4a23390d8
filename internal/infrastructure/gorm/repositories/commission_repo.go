package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/mirola777/payhook/internal/domain"
	gormdb "github.com/mirola777/payhook/internal/infrastructure/gorm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommissionRepo struct {
	db *gorm.DB
}

func NewCommissionRepo(db *gorm.DB) *CommissionRepo {
	return &CommissionRepo{db: db}
}

func (r *CommissionRepo) conn(ctx context.Context) *gorm.DB {
	return gormdb.ExtractTx(ctx, r.db).WithContext(ctx)
}

func (r *CommissionRepo) FindByID(ctx context.Context, id string) (*domain.CommissionRecord, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *CommissionRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.CommissionRecord, error) {
	return r.findOne(ctx, "order_id = ?", orderID)
}

func (r *CommissionRepo) findOne(ctx context.Context, query string, arg string) (*domain.CommissionRecord, error) {
	var record domain.CommissionRecord
	err := r.conn(ctx).Where(query, arg).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateIfAbsent reports false when a commission for the same order already
// exists. The existing row is left untouched.
func (r *CommissionRepo) CreateIfAbsent(ctx context.Context, record *domain.CommissionRecord) (bool, error) {
	result := r.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *CommissionRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	result := r.conn(ctx).
		Model(&domain.CommissionRecord{}).
		Where("id = ? AND status = ?", id, domain.CommissionStatusPending).
		Updates(map[string]any{
			"status":  domain.CommissionStatusPaid,
			"paid_at": paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *CommissionRepo) ListByReferrer(ctx context.Context, referrerID string) ([]domain.CommissionRecord, error) {
	var records []domain.CommissionRecord
	err := r.conn(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at").
		Find(&records).Error
	return records, err
}
