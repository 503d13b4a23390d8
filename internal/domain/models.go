package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyIDR Currency = "IDR"
	CurrencyTHB Currency = "THB"
)

var ValidCurrencies = map[Currency]bool{
	CurrencyUSD: true,
	CurrencyEUR: true,
	CurrencyIDR: true,
	CurrencyTHB: true,
}

type NotificationState string

const (
	NotificationStateNone      NotificationState = "none"
	NotificationStatePending   NotificationState = "pending"
	NotificationStateConfirmed NotificationState = "confirmed"
	NotificationStateFailed    NotificationState = "failed"
)

type CreatePaymentRequest struct {
	OrderID    string          `json:"order_id"`
	UserID     string          `json:"user_id"`
	ReferrerID string          `json:"referrer_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   Currency        `json:"currency"`
	Mode       ModeKind        `json:"mode"`
}

type Payment struct {
	ID                string
	OrderID           string
	UserID            string
	ReferrerID        string
	Amount            decimal.Decimal
	Currency          Currency
	Mode              PaymentMode
	Provider          string
	ProviderRef       string
	ReceiptURL        string
	Status            PaymentStatus
	NotificationState NotificationState
	NotificationEpoch int
	NotificationError string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type paymentJSON struct {
	ID                string            `json:"id"`
	OrderID           string            `json:"order_id"`
	UserID            string            `json:"user_id"`
	ReferrerID        string            `json:"referrer_id,omitempty"`
	Amount            decimal.Decimal   `json:"amount"`
	Currency          Currency          `json:"currency"`
	Mode              ModeKind          `json:"mode"`
	CheckoutURL       string            `json:"checkout_url,omitempty"`
	ClientSecret      string            `json:"client_secret,omitempty"`
	Provider          string            `json:"provider"`
	ProviderRef       string            `json:"provider_ref"`
	ReceiptURL        string            `json:"receipt_url,omitempty"`
	Status            PaymentStatus     `json:"status"`
	NotificationState NotificationState `json:"notification_state"`
	NotificationEpoch int               `json:"notification_epoch"`
	NotificationError string            `json:"notification_error,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (p Payment) MarshalJSON() ([]byte, error) {
	out := paymentJSON{
		ID:                p.ID,
		OrderID:           p.OrderID,
		UserID:            p.UserID,
		ReferrerID:        p.ReferrerID,
		Amount:            p.Amount,
		Currency:          p.Currency,
		Provider:          p.Provider,
		ProviderRef:       p.ProviderRef,
		ReceiptURL:        p.ReceiptURL,
		Status:            p.Status,
		NotificationState: p.NotificationState,
		NotificationEpoch: p.NotificationEpoch,
		NotificationError: p.NotificationError,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	switch m := p.Mode.(type) {
	case CheckoutMode:
		out.Mode = ModeCheckout
		out.CheckoutURL = m.URL
	case DirectIntentMode:
		out.Mode = ModeDirectIntent
		out.ClientSecret = m.ClientSecret
	}
	return json.Marshal(out)
}

func (p *Payment) UnmarshalJSON(data []byte) error {
	var in paymentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	value := in.CheckoutURL
	if in.Mode == ModeDirectIntent {
		value = in.ClientSecret
	}
	mode, err := NewPaymentMode(in.Mode, value)
	if err != nil {
		return err
	}
	*p = Payment{
		ID:                in.ID,
		OrderID:           in.OrderID,
		UserID:            in.UserID,
		ReferrerID:        in.ReferrerID,
		Amount:            in.Amount,
		Currency:          in.Currency,
		Mode:              mode,
		Provider:          in.Provider,
		ProviderRef:       in.ProviderRef,
		ReceiptURL:        in.ReceiptURL,
		Status:            in.Status,
		NotificationState: in.NotificationState,
		NotificationEpoch: in.NotificationEpoch,
		NotificationError: in.NotificationError,
		CreatedAt:         in.CreatedAt,
		UpdatedAt:         in.UpdatedAt,
	}
	return nil
}

type ProviderMetadata struct {
	ProviderRef string          `json:"provider_ref,omitempty"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
	ReferrerID  string          `json:"referrer_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

type EventType string

const (
	EventPaymentSucceeded  EventType = "payment_succeeded"
	EventPaymentFailed     EventType = "payment_failed"
	EventRefundCompleted   EventType = "refund_completed"
	EventCheckoutCompleted EventType = "checkout_completed"
)

var eventStatuses = map[EventType]PaymentStatus{
	EventPaymentSucceeded:  PaymentStatusSucceeded,
	EventCheckoutCompleted: PaymentStatusSucceeded,
	EventPaymentFailed:     PaymentStatusFailed,
	EventRefundCompleted:   PaymentStatusRefunded,
}

// MappedStatus reports the internal status an event type drives a payment to.
// Unrecognized types report false and must be ignored, not rejected.
func (t EventType) MappedStatus() (PaymentStatus, bool) {
	s, ok := eventStatuses[t]
	return s, ok
}

type WebhookEvent struct {
	ID        string
	Provider  string
	Type      EventType
	PaymentID string
	Metadata  ProviderMetadata
	Payload   []byte
}

type WebhookEventRecord struct {
	EventID     string         `json:"event_id" gorm:"primaryKey;type:varchar(191)"`
	Provider    string         `json:"provider" gorm:"type:varchar(32);not null"`
	EventType   string         `json:"event_type" gorm:"type:varchar(64);not null;index"`
	PaymentID   string         `json:"payment_id" gorm:"type:varchar(64);index"`
	Outcome     string         `json:"outcome" gorm:"type:varchar(64);not null"`
	Payload     datatypes.JSON `json:"payload,omitempty" gorm:"type:jsonb"`
	ProcessedAt time.Time      `json:"processed_at" gorm:"not null"`
}

type EventLock struct {
	EventID   string    `gorm:"primaryKey;type:varchar(191)"`
	Owner     string    `gorm:"type:varchar(64);not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "pending"
	CommissionStatusPaid    CommissionStatus = "paid"
)

type CommissionRecord struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ReferrerID  string           `json:"referrer_id" gorm:"type:varchar(100);not null;index"`
	CustomerID  string           `json:"customer_id" gorm:"type:varchar(100);not null"`
	OrderID     string           `json:"order_id" gorm:"type:varchar(100);not null;uniqueIndex"`
	OrderAmount decimal.Decimal  `json:"order_amount" gorm:"type:numeric(18,4);not null"`
	Amount      decimal.Decimal  `json:"amount" gorm:"type:numeric(18,4);not null"`
	Status      CommissionStatus `json:"status" gorm:"type:varchar(20);not null"`
	Audit       datatypes.JSON   `json:"audit" gorm:"type:jsonb"`
	PaidAt      *time.Time       `json:"paid_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at" gorm:"autoCreateTime"`
}

type CommissionAudit struct {
	Rate         decimal.Decimal `json:"rate"`
	MinAmount    decimal.Decimal `json:"min_amount"`
	ChecksPassed []string        `json:"checks_passed"`
	CalculatedAt time.Time       `json:"calculated_at"`
}

type AccrueRequest struct {
	OrderID    string
	CustomerID string
	Amount     decimal.Decimal
	ReferrerID string
}

type CommissionReport struct {
	ReferrerID       string             `json:"referrerId"`
	TotalCommissions int                `json:"totalCommissions"`
	TotalAmount      decimal.Decimal    `json:"totalAmount"`
	PendingAmount    decimal.Decimal    `json:"pendingAmount"`
	PaidAmount       decimal.Decimal    `json:"paidAmount"`
	Commissions      []CommissionRecord `json:"commissions"`
}

func (CommissionRecord) TableName() string {
	return "commissions"
}

func (WebhookEventRecord) TableName() string {
	return "webhook_events"
}

func (EventLock) TableName() string {
	return "event_locks"
}

type StatusChange struct {
	OrderID    string        `json:"order_id"`
	PaymentID  string        `json:"payment_id"`
	Status     PaymentStatus `json:"status"`
	ReceiptURL string        `json:"receipt_url,omitempty"`
}

type Notification struct {
	Target         string
	IdempotencyKey string
	Epoch          int
	Payload        StatusChange
}

type NotificationAttempt struct {
	IdempotencyKey string
	PaymentID      string
	Epoch          int
	Attempts       int
	Delivered      bool
	LastError      string
}
