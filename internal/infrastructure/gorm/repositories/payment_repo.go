package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/mirola777/payhook/internal/domain"
	gormdb "github.com/mirola777/payhook/internal/infrastructure/gorm"
	"github.com/mirola777/payhook/internal/infrastructure/gorm/models"
	"gorm.io/gorm"
)

type PaymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (r *PaymentRepo) conn(ctx context.Context) *gorm.DB {
	return gormdb.ExtractTx(ctx, r.db).WithContext(ctx)
}

func (r *PaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	row := models.PaymentFromDomain(payment)
	if err := r.conn(ctx).Create(row).Error; err != nil {
		return err
	}
	payment.NotificationState = domain.NotificationState(row.NotificationState)
	payment.CreatedAt = row.CreatedAt
	payment.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *PaymentRepo) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	var row models.PaymentRow
	err := r.conn(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.ToDomain()
}

// UpdateStatus writes the payment only if its stored status still equals from.
// It reports false when another writer got there first.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, payment *domain.Payment, from domain.PaymentStatus) (bool, error) {
	now := time.Now().UTC()
	result := r.conn(ctx).
		Model(&models.PaymentRow{}).
		Where("id = ? AND status = ?", payment.ID, string(from)).
		Updates(map[string]any{
			"status":             string(payment.Status),
			"referrer_id":        payment.ReferrerID,
			"provider_ref":       payment.ProviderRef,
			"receipt_url":        payment.ReceiptURL,
			"notification_state": string(payment.NotificationState),
			"notification_epoch": payment.NotificationEpoch,
			"notification_error": payment.NotificationError,
			"updated_at":         now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	payment.UpdatedAt = now
	return true, nil
}

func (r *PaymentRepo) ListUnconfirmedSettlements(ctx context.Context) ([]domain.Payment, error) {
	var rows []models.PaymentRow
	err := r.conn(ctx).
		Where("status = ? AND notification_state <> ?", string(domain.PaymentStatusSucceeded), string(domain.NotificationStateConfirmed)).
		Order("updated_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	payments := make([]domain.Payment, 0, len(rows))
	for i := range rows {
		p, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, nil
}

// RecordNotification stores a delivery outcome for the epoch it was sent
// under. Outcomes for an older epoch, or arriving after confirmation, are
// rejected with domain.ErrNotificationEpoch.
func (r *PaymentRepo) RecordNotification(ctx context.Context, attempt domain.NotificationAttempt) error {
	state := domain.NotificationStateFailed
	lastErr := attempt.LastError
	if attempt.Delivered {
		state = domain.NotificationStateConfirmed
		lastErr = ""
	}

	result := r.conn(ctx).
		Model(&models.PaymentRow{}).
		Where("id = ? AND notification_epoch = ? AND notification_state <> ?",
			attempt.PaymentID, attempt.Epoch, string(domain.NotificationStateConfirmed)).
		Updates(map[string]any{
			"notification_state": string(state),
			"notification_error": lastErr,
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotificationEpoch
	}
	return nil
}
