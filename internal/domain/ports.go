package domain

import (
	"context"
	"time"
)

type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id string) (*Payment, error)
	UpdateStatus(ctx context.Context, payment *Payment, from PaymentStatus) (bool, error)
	ListUnconfirmedSettlements(ctx context.Context) ([]Payment, error)
}

type NotificationRecorder interface {
	RecordNotification(ctx context.Context, attempt NotificationAttempt) error
}

type WebhookEventRepository interface {
	FindByID(ctx context.Context, eventID string) (*WebhookEventRecord, error)
	Create(ctx context.Context, record *WebhookEventRecord) error
}

type LockStore interface {
	TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, owner string) error
}

type CommissionRepository interface {
	FindByID(ctx context.Context, id string) (*CommissionRecord, error)
	FindByOrderID(ctx context.Context, orderID string) (*CommissionRecord, error)
	CreateIfAbsent(ctx context.Context, record *CommissionRecord) (bool, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)
	ListByReferrer(ctx context.Context, referrerID string) ([]CommissionRecord, error)
}

type ProviderPayment struct {
	Reference string
	Mode      PaymentMode
}

type ProviderGateway interface {
	Name() string
	Create(ctx context.Context, payment *Payment, mode ModeKind) (*ProviderPayment, error)
}

type WebhookVerifier interface {
	Provider() string
	SignatureHeader() string
	Verify(payload []byte, signature string) (*WebhookEvent, error)
}

type NotificationSender interface {
	Send(ctx context.Context, notification Notification) error
}

type CommissionLedger interface {
	Accrue(ctx context.Context, req AccrueRequest) (*CommissionRecord, error)
	MarkPaid(ctx context.Context, commissionID string) (*CommissionRecord, error)
	Report(ctx context.Context, referrerID string) (*CommissionReport, error)
}

type NotificationDispatcher interface {
	Notify(ctx context.Context, notification Notification)
}

type PaymentService interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
	ApplyProviderStatus(ctx context.Context, paymentID string, status PaymentStatus, meta ProviderMetadata) (*Payment, error)
	ListUnconfirmedSettlements(ctx context.Context) ([]Payment, error)
	RenotifySettlement(ctx context.Context, paymentID string) (*Payment, error)
}

type WebhookOutcome string

const (
	WebhookOutcomeProcessed  WebhookOutcome = "processed"
	WebhookOutcomeDuplicate  WebhookOutcome = "duplicate"
	WebhookOutcomeInProgress WebhookOutcome = "in_progress"
	WebhookOutcomeIgnored    WebhookOutcome = "ignored"
)

type WebhookResult struct {
	EventID   string         `json:"event_id"`
	EventType EventType      `json:"event_type"`
	Outcome   WebhookOutcome `json:"outcome"`
	PaymentID string         `json:"payment_id,omitempty"`
	Status    PaymentStatus  `json:"status,omitempty"`
}

type WebhookService interface {
	Handle(ctx context.Context, provider string, payload []byte, signature string) (*WebhookResult, error)
	SignatureHeader(provider string) (string, bool)
}
