package webhook

import (
	"context"
	"errors"
	"time"

	"github.com/mirola777/payhook/internal/application/guard"
	"github.com/mirola777/payhook/internal/domain"
	apperrors "github.com/mirola777/payhook/internal/domain/errors"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Processor struct {
	guard     *guard.Guard
	payments  domain.PaymentService
	verifiers map[string]domain.WebhookVerifier
	lockTTL   time.Duration
	log       *zap.Logger
}

func NewProcessor(
	g *guard.Guard,
	payments domain.PaymentService,
	verifiers []domain.WebhookVerifier,
	lockTTL time.Duration,
	log *zap.Logger,
) *Processor {
	byProvider := make(map[string]domain.WebhookVerifier, len(verifiers))
	for _, v := range verifiers {
		byProvider[v.Provider()] = v
	}
	return &Processor{
		guard:     g,
		payments:  payments,
		verifiers: byProvider,
		lockTTL:   lockTTL,
		log:       log,
	}
}

// SignatureHeader names the request header carrying the provider's signature.
// It is empty for providers that sign inside the body.
func (p *Processor) SignatureHeader(provider string) (string, bool) {
	v, ok := p.verifiers[provider]
	if !ok {
		return "", false
	}
	return v.SignatureHeader(), true
}

// Handle authenticates a provider webhook and applies it at most once per
// event id. Duplicate and concurrent deliveries are reported as outcomes, not
// errors, so the provider stops redelivering.
func (p *Processor) Handle(ctx context.Context, provider string, payload []byte, signature string) (*domain.WebhookResult, error) {
	verifier, ok := p.verifiers[provider]
	if !ok {
		return nil, apperrors.ErrWebhookProviderUnknown()
	}

	event, err := verifier.Verify(payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSignatureInvalid), errors.Is(err, domain.ErrSecretMissing):
			p.log.Warn("webhook authentication failed", zap.String("provider", provider), zap.Error(err))
			return nil, apperrors.ErrAuthenticationFailed()
		case errors.Is(err, domain.ErrMalformedPayload):
			return nil, apperrors.ErrMalformedWebhook(err.Error())
		default:
			p.log.Error("webhook verification error", zap.String("provider", provider), zap.Error(err))
			return nil, apperrors.ErrInternal()
		}
	}

	log := p.log.With(
		zap.String("provider", provider),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("payment_id", event.PaymentID))

	result := &domain.WebhookResult{
		EventID:   event.ID,
		EventType: event.Type,
		PaymentID: event.PaymentID,
	}

	target, known := event.Type.MappedStatus()
	if !known {
		log.Info("ignoring unhandled event type")
		result.Outcome = domain.WebhookOutcomeIgnored
		return result, nil
	}

	lease, acq, err := p.guard.TryAcquire(ctx, event.ID, p.lockTTL)
	if err != nil {
		log.Error("event guard unavailable", zap.Error(err))
		if errors.Is(err, domain.ErrLockStoreDown) {
			return nil, apperrors.ErrLockStoreUnavailable()
		}
		return nil, apperrors.ErrInternal()
	}
	switch acq {
	case guard.AlreadyProcessed:
		log.Info("duplicate webhook delivery")
		result.Outcome = domain.WebhookOutcomeDuplicate
		return result, nil
	case guard.HeldElsewhere:
		log.Info("webhook already being processed")
		result.Outcome = domain.WebhookOutcomeInProgress
		return result, nil
	}
	defer p.guard.Release(ctx, lease)

	payment, err := p.payments.ApplyProviderStatus(ctx, event.PaymentID, target, event.Metadata)
	if err != nil {
		return nil, err
	}

	outcome := string(payment.Status)
	if payment.Status != target {
		outcome = "noop"
	}

	err = p.guard.MarkProcessed(ctx, &domain.WebhookEventRecord{
		EventID:   event.ID,
		Provider:  provider,
		EventType: string(event.Type),
		PaymentID: event.PaymentID,
		Outcome:   outcome,
		Payload:   datatypes.JSON(payload),
	})
	if err != nil {
		log.Error("failed to mark webhook processed", zap.Error(err))
		return nil, apperrors.ErrInternal()
	}

	log.Info("webhook processed", zap.String("outcome", outcome))
	result.Outcome = domain.WebhookOutcomeProcessed
	result.Status = payment.Status
	return result, nil
}
