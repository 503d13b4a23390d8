package breaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mirola777/payhook/internal/domain"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var ErrOpen = domain.ErrCircuitOpen

type Settings struct {
	FailureThreshold uint32
	ResetTimeout     time.Duration
}

type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func New(name string, settings Settings, log *zap.Logger) *CircuitBreaker {
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     settings.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// the receiver answered; a rejection says nothing about its health
		IsSuccessful: func(err error) bool {
			return err == nil || domain.IsPermanentDelivery(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &CircuitBreaker{cb: cb}
}

// Execute runs fn unless the breaker is open, in which case it returns ErrOpen
// without calling fn.
func (b *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpen
	}
	return err
}

func (b *CircuitBreaker) State() string {
	return b.cb.State().String()
}

// Registry hands out one breaker per downstream target.
type Registry struct {
	mu       sync.Mutex
	settings Settings
	log      *zap.Logger
	breakers map[string]*CircuitBreaker
}

func NewRegistry(settings Settings, log *zap.Logger) *Registry {
	return &Registry{
		settings: settings,
		log:      log,
		breakers: make(map[string]*CircuitBreaker),
	}
}

func (r *Registry) For(target string) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.breakers[target]
	if !ok {
		b = New(target, r.settings, r.log)
		r.breakers[target] = b
	}
	return b
}
