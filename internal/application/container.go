package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mirola777/payhook/internal/application/commission"
	"github.com/mirola777/payhook/internal/application/guard"
	"github.com/mirola777/payhook/internal/application/notification"
	"github.com/mirola777/payhook/internal/application/payment"
	"github.com/mirola777/payhook/internal/application/webhook"
	"github.com/mirola777/payhook/internal/domain"
	"github.com/mirola777/payhook/internal/infrastructure/breaker"
	gormdb "github.com/mirola777/payhook/internal/infrastructure/gorm"
	"github.com/mirola777/payhook/internal/infrastructure/gorm/repositories"
	"github.com/mirola777/payhook/internal/infrastructure/notifier"
	"github.com/mirola777/payhook/internal/infrastructure/provider"
	"github.com/mirola777/payhook/internal/infrastructure/redis"
	"github.com/mirola777/payhook/internal/utils/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const orderServiceTarget = "order-service"

type Container struct {
	Payments    *payment.Orchestrator
	Webhooks    *webhook.Processor
	Commissions *commission.Ledger
	Dispatcher  *notification.Dispatcher
	// Checks reports the reachability of each backing store by name.
	Checks      map[string]func(ctx context.Context) error

	log     *zap.Logger
	cancel  context.CancelFunc
	closers []func() error
}

func NewContainer(db *gorm.DB, cfg *config.Config, log *zap.Logger) (*Container, error) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Container{
		log:    log,
		cancel: cancel,
		Checks: map[string]func(ctx context.Context) error{
			"database": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		},
	}

	paymentRepo := repositories.NewPaymentRepo(db)
	commissionRepo := repositories.NewCommissionRepo(db)
	eventRepo := repositories.NewWebhookEventRepo(db)

	locks, err := c.lockStore(ctx, db, cfg)
	if err != nil {
		cancel()
		return nil, err
	}

	sender, err := c.sender(cfg)
	if err != nil {
		cancel()
		_ = c.runClosers()
		return nil, err
	}

	gateway, err := newGateway(cfg)
	if err != nil {
		cancel()
		_ = c.runClosers()
		return nil, err
	}

	c.Dispatcher = notification.NewDispatcher(
		sender,
		paymentRepo,
		breaker.NewRegistry(breaker.Settings{
			FailureThreshold: cfg.BreakerFailureThreshold,
			ResetTimeout:     cfg.BreakerResetTimeout,
		}, log),
		notification.Settings{
			MaxAttempts: cfg.NotifyMaxAttempts,
			BackoffBase: cfg.NotifyBackoffBase,
		},
		log.Named("dispatcher"),
	)

	c.Commissions = commission.NewLedger(commissionRepo, commission.Settings{
		Rate:      cfg.CommissionRate.Decimal,
		MinAmount: cfg.CommissionMinAmount.Decimal,
	}, log.Named("commission"))

	c.Payments = payment.NewOrchestrator(
		gormdb.NewTransactionManager(db),
		paymentRepo,
		c.Commissions,
		c.Dispatcher,
		gateway,
		orderServiceTarget,
		log.Named("payment"),
	)

	c.Webhooks = webhook.NewProcessor(
		guard.New(locks, eventRepo, log.Named("guard")),
		c.Payments,
		newVerifiers(cfg),
		cfg.LockTTL,
		log.Named("webhook"),
	)

	return c, nil
}

func (c *Container) lockStore(ctx context.Context, db *gorm.DB, cfg *config.Config) (domain.LockStore, error) {
	switch cfg.LockBackend {
	case "database":
		repo := repositories.NewLockRepo(db)
		go startCleanupLoop(ctx, repo, cfg.LockCleanupInterval, c.log)
		return repo, nil
	case "redis":
		client := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		store := redis.NewLockStore(client)
		c.closers = append(c.closers, client.Close)
		c.Checks["redis"] = store.Ping
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported lock backend %q", cfg.LockBackend)
	}
}

func (c *Container) sender(cfg *config.Config) (domain.NotificationSender, error) {
	switch cfg.NotifyTransport {
	case "http":
		return notifier.NewHTTPSender(cfg.OrderServiceURL, cfg.OrderServiceAPIKey, cfg.NotifyTimeout), nil
	case "amqp":
		s, err := notifier.NewAMQPSender(cfg.AMQPURL)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, s.Close)
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported notify transport %q", cfg.NotifyTransport)
	}
}

func newGateway(cfg *config.Config) (domain.ProviderGateway, error) {
	switch cfg.PaymentProvider {
	case provider.SimulatorName:
		return provider.NewSimulator(), nil
	case provider.MidtransName:
		if cfg.MidtransServerKey == "" {
			return nil, errors.New("MIDTRANS_SERVER_KEY is required for the midtrans provider")
		}
		return provider.NewMidtrans(cfg.MidtransServerKey, cfg.MidtransEnv), nil
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", cfg.PaymentProvider)
	}
}

func newVerifiers(cfg *config.Config) []domain.WebhookVerifier {
	allowUnsigned := cfg.IsTest()
	verifiers := []domain.WebhookVerifier{
		provider.NewSimulatorVerifier(cfg.WebhookSecret, cfg.WebhookTolerance, allowUnsigned),
	}
	if cfg.MidtransServerKey != "" || cfg.PaymentProvider == provider.MidtransName {
		verifiers = append(verifiers, provider.NewMidtransVerifier(cfg.MidtransServerKey, allowUnsigned))
	}
	return verifiers
}

// Shutdown drains in-flight notifications and releases connections. Call it
// after the HTTP server has stopped accepting webhooks.
func (c *Container) Shutdown(ctx context.Context) error {
	c.cancel()

	var errs []error
	if err := c.Dispatcher.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("drain dispatcher: %w", err))
	}
	if err := c.runClosers(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Container) runClosers() error {
	var errs []error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func startCleanupLoop(ctx context.Context, repo *repositories.LockRepo, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleaned, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Warn("lock cleanup failed", zap.Error(err))
				continue
			}
			if cleaned > 0 {
				log.Info("cleaned expired event locks", zap.Int64("count", cleaned))
			}
		}
	}
}
