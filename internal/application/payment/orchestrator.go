package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mirola777/payhook/internal/domain"
	apperrors "github.com/mirola777/payhook/internal/domain/errors"
	"github.com/mirola777/payhook/internal/utils/fingerprint"
	"go.uber.org/zap"
)

// Orchestrator owns the payment lifecycle. Status changes are persisted with a
// compare-and-set on the previous status, so concurrent writers cannot both
// apply the same transition.
type Orchestrator struct {
	tm         domain.TransactionManager
	payments   domain.PaymentRepository
	ledger     domain.CommissionLedger
	dispatcher domain.NotificationDispatcher
	gateway    domain.ProviderGateway
	target     string
	log        *zap.Logger
}

func NewOrchestrator(
	tm domain.TransactionManager,
	payments domain.PaymentRepository,
	ledger domain.CommissionLedger,
	dispatcher domain.NotificationDispatcher,
	gateway domain.ProviderGateway,
	target string,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		tm:         tm,
		payments:   payments,
		ledger:     ledger,
		dispatcher: dispatcher,
		gateway:    gateway,
		target:     target,
		log:        log,
	}
}

func (o *Orchestrator) CreatePayment(ctx context.Context, req domain.CreatePaymentRequest) (*domain.Payment, error) {
	if err := validatePaymentRequest(req); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:         "pay_" + uuid.NewString(),
		OrderID:    req.OrderID,
		UserID:     req.UserID,
		ReferrerID: req.ReferrerID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Provider:   o.gateway.Name(),
	}

	res, err := o.gateway.Create(ctx, payment, req.Mode)
	if err != nil {
		o.log.Warn("provider rejected payment creation",
			zap.String("order_id", req.OrderID),
			zap.String("provider", o.gateway.Name()),
			zap.Error(err))
		return nil, apperrors.ErrProviderCreationFailed(err.Error())
	}

	payment.ProviderRef = res.Reference
	payment.Mode = res.Mode
	payment.Status = res.Mode.InitialStatus()
	payment.NotificationState = domain.NotificationStateNone

	if err := o.payments.Create(ctx, payment); err != nil {
		o.log.Error("failed to save payment", zap.String("payment_id", payment.ID), zap.Error(err))
		return nil, apperrors.ErrInternal()
	}

	o.log.Info("payment created",
		zap.String("payment_id", payment.ID),
		zap.String("order_id", payment.OrderID),
		zap.String("mode", string(payment.Mode.Kind())),
		zap.String("status", string(payment.Status)))
	return payment, nil
}

func (o *Orchestrator) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := o.payments.FindByID(ctx, paymentID)
	if err != nil {
		o.log.Error("failed to load payment", zap.String("payment_id", paymentID), zap.Error(err))
		return nil, apperrors.ErrInternal()
	}
	if payment == nil {
		return nil, apperrors.ErrPaymentNotFound()
	}
	return payment, nil
}

// ApplyProviderStatus moves a payment to the status a provider reported.
// Repeated and out-of-order reports return the payment unchanged.
func (o *Orchestrator) ApplyProviderStatus(
	ctx context.Context,
	paymentID string,
	status domain.PaymentStatus,
	meta domain.ProviderMetadata,
) (*domain.Payment, error) {
	log := o.log.With(zap.String("payment_id", paymentID), zap.String("target_status", string(status)))

	var result *domain.Payment
	var settled bool

	err := o.tm.RunInTransaction(ctx, func(ctx context.Context) error {
		payment, err := o.payments.FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			log.Warn("status report for unknown payment")
			return apperrors.ErrPaymentNotFound()
		}

		if payment.Status == status {
			result = payment
			return nil
		}
		if !payment.Status.CanTransitionTo(status) {
			log.Warn("ignoring out-of-order status report", zap.String("current_status", string(payment.Status)))
			result = payment
			return nil
		}

		from := payment.Status
		payment.Status = status
		if meta.ProviderRef != "" {
			payment.ProviderRef = meta.ProviderRef
		}
		if meta.ReceiptURL != "" {
			payment.ReceiptURL = meta.ReceiptURL
		}
		if payment.ReferrerID == "" {
			payment.ReferrerID = meta.ReferrerID
		}
		if status == domain.PaymentStatusSucceeded {
			payment.NotificationEpoch++
			payment.NotificationState = domain.NotificationStatePending
			payment.NotificationError = ""
		}

		ok, err := o.payments.UpdateStatus(ctx, payment, from)
		if err != nil {
			return err
		}
		if !ok {
			log.Warn("lost status update race", zap.String("from_status", string(from)))
			return apperrors.ErrPaymentConcurrentUpdate()
		}

		if status == domain.PaymentStatusSucceeded {
			if !meta.Amount.IsZero() && !meta.Amount.Equal(payment.Amount) {
				log.Warn("provider amount differs from payment amount",
					zap.String("provider_amount", meta.Amount.String()),
					zap.String("payment_amount", payment.Amount.String()))
			}
			_, err := o.ledger.Accrue(ctx, domain.AccrueRequest{
				OrderID:    payment.OrderID,
				CustomerID: payment.UserID,
				Amount:     payment.Amount,
				ReferrerID: payment.ReferrerID,
			})
			if err != nil {
				return err
			}
			settled = true
		}

		log.Info("payment status changed", zap.String("from_status", string(from)))
		result = payment
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		log.Error("failed to apply provider status", zap.Error(err))
		return nil, apperrors.ErrInternal()
	}

	if settled {
		o.dispatcher.Notify(ctx, o.notification(result))
	}
	return result, nil
}

func (o *Orchestrator) ListUnconfirmedSettlements(ctx context.Context) ([]domain.Payment, error) {
	payments, err := o.payments.ListUnconfirmedSettlements(ctx)
	if err != nil {
		o.log.Error("failed to list unconfirmed settlements", zap.Error(err))
		return nil, apperrors.ErrInternal()
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return payments, nil
}

// RenotifySettlement hands an unconfirmed settlement back to the dispatcher.
// The epoch is unchanged, so the receiver sees the original idempotency key.
func (o *Orchestrator) RenotifySettlement(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := o.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentStatusSucceeded || payment.NotificationState == domain.NotificationStateConfirmed {
		return nil, apperrors.ErrSettlementNotPending()
	}

	if payment.NotificationState != domain.NotificationStatePending {
		payment.NotificationState = domain.NotificationStatePending
		ok, err := o.payments.UpdateStatus(ctx, payment, domain.PaymentStatusSucceeded)
		if err != nil {
			o.log.Error("failed to reset notification state", zap.String("payment_id", paymentID), zap.Error(err))
			return nil, apperrors.ErrInternal()
		}
		if !ok {
			return nil, apperrors.ErrPaymentConcurrentUpdate()
		}
	}

	o.log.Info("re-dispatching settlement notification",
		zap.String("payment_id", paymentID),
		zap.Int("epoch", payment.NotificationEpoch))
	o.dispatcher.Notify(ctx, o.notification(payment))
	return payment, nil
}

func (o *Orchestrator) notification(p *domain.Payment) domain.Notification {
	return domain.Notification{
		Target:         o.target,
		IdempotencyKey: fingerprint.NotificationKey(p.ID, p.Status, p.NotificationEpoch),
		Epoch:          p.NotificationEpoch,
		Payload: domain.StatusChange{
			OrderID:    p.OrderID,
			PaymentID:  p.ID,
			Status:     p.Status,
			ReceiptURL: p.ReceiptURL,
		},
	}
}

func validatePaymentRequest(req domain.CreatePaymentRequest) error {
	var reasons []string

	if !req.Amount.IsPositive() {
		reasons = append(reasons, "amount must be greater than 0")
	}
	if req.Currency == "" {
		reasons = append(reasons, "currency is required")
	} else if !domain.ValidCurrencies[req.Currency] {
		return apperrors.ErrInvalidCurrency(string(req.Currency))
	}
	if req.OrderID == "" {
		reasons = append(reasons, "order_id is required")
	}
	if req.UserID == "" {
		reasons = append(reasons, "user_id is required")
	}
	if !req.Mode.Valid() {
		return apperrors.ErrInvalidPaymentMode()
	}

	if len(reasons) > 0 {
		return apperrors.ErrInvalidPaymentRequest(strings.Join(reasons, "; "))
	}
	return nil
}
