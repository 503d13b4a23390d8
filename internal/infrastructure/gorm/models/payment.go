package models

import (
	"time"

	"github.com/mirola777/payhook/internal/domain"
	"github.com/shopspring/decimal"
)

// PaymentRow is the persisted shape of domain.Payment. The mode variant is
// flattened into mode plus a single mode_value column.
type PaymentRow struct {
	ID                string          `gorm:"primaryKey;type:varchar(64)"`
	OrderID           string          `gorm:"type:varchar(100);not null;index"`
	UserID            string          `gorm:"type:varchar(100);not null"`
	ReferrerID        string          `gorm:"type:varchar(100)"`
	Amount            decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Currency          string          `gorm:"type:varchar(3);not null"`
	Mode              string          `gorm:"type:varchar(20);not null"`
	ModeValue         string          `gorm:"type:text"`
	Provider          string          `gorm:"type:varchar(32);not null"`
	ProviderRef       string          `gorm:"type:varchar(191);index"`
	ReceiptURL        string          `gorm:"type:text"`
	Status            string          `gorm:"type:varchar(20);not null;index"`
	NotificationState string          `gorm:"type:varchar(20);not null;default:none;index"`
	NotificationEpoch int             `gorm:"not null;default:0"`
	NotificationError string          `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (PaymentRow) TableName() string {
	return "payments"
}

func (r *PaymentRow) ToDomain() (*domain.Payment, error) {
	mode, err := domain.NewPaymentMode(domain.ModeKind(r.Mode), r.ModeValue)
	if err != nil {
		return nil, err
	}
	return &domain.Payment{
		ID:                r.ID,
		OrderID:           r.OrderID,
		UserID:            r.UserID,
		ReferrerID:        r.ReferrerID,
		Amount:            r.Amount,
		Currency:          domain.Currency(r.Currency),
		Mode:              mode,
		Provider:          r.Provider,
		ProviderRef:       r.ProviderRef,
		ReceiptURL:        r.ReceiptURL,
		Status:            domain.PaymentStatus(r.Status),
		NotificationState: domain.NotificationState(r.NotificationState),
		NotificationEpoch: r.NotificationEpoch,
		NotificationError: r.NotificationError,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}, nil
}

func PaymentFromDomain(p *domain.Payment) *PaymentRow {
	row := &PaymentRow{
		ID:                p.ID,
		OrderID:           p.OrderID,
		UserID:            p.UserID,
		ReferrerID:        p.ReferrerID,
		Amount:            p.Amount,
		Currency:          string(p.Currency),
		Provider:          p.Provider,
		ProviderRef:       p.ProviderRef,
		ReceiptURL:        p.ReceiptURL,
		Status:            string(p.Status),
		NotificationState: string(p.NotificationState),
		NotificationEpoch: p.NotificationEpoch,
		NotificationError: p.NotificationError,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.Mode != nil {
		row.Mode = string(p.Mode.Kind())
		row.ModeValue = p.Mode.Value()
	}
	if row.NotificationState == "" {
		row.NotificationState = string(domain.NotificationStateNone)
	}
	return row
}
