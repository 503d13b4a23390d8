package handlers

import (
	"context"

	"github.com/mirola777/payhook/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) CreatePayment(ctx context.Context, req domain.CreatePaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *mockPaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *mockPaymentService) ApplyProviderStatus(ctx context.Context, paymentID string, status domain.PaymentStatus, meta domain.ProviderMetadata) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, status, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *mockPaymentService) ListUnconfirmedSettlements(ctx context.Context) ([]domain.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *mockPaymentService) RenotifySettlement(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type mockWebhookService struct {
	mock.Mock
}

func (m *mockWebhookService) Handle(ctx context.Context, provider string, payload []byte, signature string) (*domain.WebhookResult, error) {
	args := m.Called(ctx, provider, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebhookResult), args.Error(1)
}

func (m *mockWebhookService) SignatureHeader(provider string) (string, bool) {
	args := m.Called(provider)
	return args.String(0), args.Bool(1)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Accrue(ctx context.Context, req domain.AccrueRequest) (*domain.CommissionRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionRecord), args.Error(1)
}

func (m *mockLedger) MarkPaid(ctx context.Context, commissionID string) (*domain.CommissionRecord, error) {
	args := m.Called(ctx, commissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionRecord), args.Error(1)
}

func (m *mockLedger) Report(ctx context.Context, referrerID string) (*domain.CommissionReport, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionReport), args.Error(1)
}
