package repositories

import (
	"context"
	"errors"

	"github.com/mirola777/payhook/internal/domain"
	gormdb "github.com/mirola777/payhook/internal/infrastructure/gorm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepo struct {
	db *gorm.DB
}

func NewWebhookEventRepo(db *gorm.DB) *WebhookEventRepo {
	return &WebhookEventRepo{db: db}
}

func (r *WebhookEventRepo) conn(ctx context.Context) *gorm.DB {
	return gormdb.ExtractTx(ctx, r.db).WithContext(ctx)
}

func (r *WebhookEventRepo) FindByID(ctx context.Context, eventID string) (*domain.WebhookEventRecord, error) {
	var record domain.WebhookEventRecord
	err := r.conn(ctx).Where("event_id = ?", eventID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create keeps the first record for an event id; later writes are dropped.
func (r *WebhookEventRepo) Create(ctx context.Context, record *domain.WebhookEventRecord) error {
	return r.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
}
