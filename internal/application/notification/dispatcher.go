package notification

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mirola777/payhook/internal/domain"
	"github.com/mirola777/payhook/internal/infrastructure/breaker"
	"go.uber.org/zap"
)

const maxBackoffInterval = 10 * time.Minute

type Settings struct {
	MaxAttempts int
	BackoffBase time.Duration
}

// Dispatcher delivers status changes to downstream services in the
// background. The caller never waits on delivery and never sees its failure;
// the outcome is stored through the recorder for reconciliation.
type Dispatcher struct {
	sender   domain.NotificationSender
	recorder domain.NotificationRecorder
	breakers *breaker.Registry
	settings Settings
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(
	sender domain.NotificationSender,
	recorder domain.NotificationRecorder,
	breakers *breaker.Registry,
	settings Settings,
	log *zap.Logger,
) *Dispatcher {
	if settings.MaxAttempts < 1 {
		settings.MaxAttempts = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		sender:   sender,
		recorder: recorder,
		breakers: breakers,
		settings: settings,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (d *Dispatcher) Notify(_ context.Context, n domain.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.log.Warn("dispatcher stopped, settlement left unconfirmed",
			zap.String("payment_id", n.Payload.PaymentID),
			zap.String("idempotency_key", n.IdempotencyKey))
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.Deliver(d.ctx, n)
	}()
}

// Deliver runs the retry sequence for n synchronously and records its outcome.
func (d *Dispatcher) Deliver(ctx context.Context, n domain.Notification) domain.NotificationAttempt {
	log := d.log.With(
		zap.String("payment_id", n.Payload.PaymentID),
		zap.String("target", n.Target),
		zap.String("idempotency_key", n.IdempotencyKey))

	attempt := domain.NotificationAttempt{
		IdempotencyKey: n.IdempotencyKey,
		PaymentID:      n.Payload.PaymentID,
		Epoch:          n.Epoch,
	}
	cb := d.breakers.For(n.Target)

	var lastErr error
	operation := func() error {
		attempt.Attempts++
		err := cb.Execute(ctx, func(ctx context.Context) error {
			return d.sender.Send(ctx, n)
		})
		if err == nil {
			return nil
		}
		lastErr = err
		if domain.IsPermanentDelivery(err) {
			return backoff.Permanent(err)
		}
		log.Warn("notification attempt failed", zap.Int("attempt", attempt.Attempts), zap.Error(err))
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(d.policy(), ctx))
	attempt.Delivered = err == nil

	if ctx.Err() != nil && !attempt.Delivered {
		log.Warn("notification abandoned on shutdown", zap.Int("attempts", attempt.Attempts))
		return attempt
	}

	if attempt.Delivered {
		log.Info("notification delivered", zap.Int("attempts", attempt.Attempts))
	} else {
		if lastErr == nil {
			lastErr = err
		}
		attempt.LastError = lastErr.Error()
		log.Error("notification failed, reconciliation required",
			zap.Int("attempts", attempt.Attempts), zap.Error(lastErr))
	}

	if err := d.recorder.RecordNotification(ctx, attempt); err != nil {
		log.Warn("failed to record notification outcome", zap.Error(err))
	}
	return attempt
}

func (d *Dispatcher) policy() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = d.settings.BackoffBase
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = backoffCeiling(d.settings.BackoffBase, d.settings.MaxAttempts)
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithMaxRetries(exp, uint64(d.settings.MaxAttempts-1))
}

// backoffCeiling doubles base once per attempt, stopping at maxBackoffInterval
// so large attempt budgets cannot overflow the interval.
func backoffCeiling(base time.Duration, attempts int) time.Duration {
	if base <= 0 {
		return base
	}
	ceiling := base
	for i := 0; i < attempts && ceiling < maxBackoffInterval; i++ {
		ceiling *= 2
	}
	return max(min(ceiling, maxBackoffInterval), base)
}

// Flush waits for in-flight deliveries to finish without cancelling them.
func (d *Dispatcher) Flush(ctx context.Context) error {
	return d.wait(ctx)
}

// Shutdown stops accepting work, cancels in-flight retry sequences and waits
// for them to return or for ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	return d.wait(ctx)
}

func (d *Dispatcher) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
