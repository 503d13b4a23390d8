package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mirola777/payhook/internal/domain"
	"go.uber.org/zap"
)

type Acquisition int

const (
	Acquired Acquisition = iota
	AlreadyProcessed
	HeldElsewhere
)

const releaseTimeout = 5 * time.Second

// Guard gates webhook processing so each provider event id produces its side
// effects once. The processed record is authoritative; the lock only keeps
// concurrent deliveries of the same event from racing.
type Guard struct {
	locks  domain.LockStore
	events domain.WebhookEventRepository
	log    *zap.Logger
}

// Lease is the caller's claim on an event lock. The owner token is the only
// thing that can release it, so a holder whose lock expired cannot drop a lock
// taken since by another worker.
type Lease struct {
	EventID string
	Owner   string
}

func New(locks domain.LockStore, events domain.WebhookEventRepository, log *zap.Logger) *Guard {
	return &Guard{
		locks:  locks,
		events: events,
		log:    log,
	}
}

func (g *Guard) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	record, err := g.events.FindByID(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("check processed event %s: %w", eventID, err)
	}
	return record != nil, nil
}

// AcquireLock returns a nil lease when the event is processed or locked
// elsewhere.
func (g *Guard) AcquireLock(ctx context.Context, eventID string, ttl time.Duration) (*Lease, error) {
	lease, _, err := g.TryAcquire(ctx, eventID, ttl)
	return lease, err
}

// TryAcquire returns a lease only with Acquired.
func (g *Guard) TryAcquire(ctx context.Context, eventID string, ttl time.Duration) (*Lease, Acquisition, error) {
	processed, err := g.IsProcessed(ctx, eventID)
	if err != nil {
		return nil, HeldElsewhere, err
	}
	if processed {
		return nil, AlreadyProcessed, nil
	}

	lease := &Lease{EventID: eventID, Owner: uuid.NewString()}
	ok, err := g.locks.TryLock(ctx, eventID, lease.Owner, ttl)
	if err != nil {
		return nil, HeldElsewhere, fmt.Errorf("%w: %v", domain.ErrLockStoreDown, err)
	}
	if !ok {
		return nil, HeldElsewhere, nil
	}

	// a previous holder may have finished between the first check and the lock
	processed, err = g.IsProcessed(ctx, eventID)
	if err != nil {
		g.unlock(ctx, lease)
		return nil, HeldElsewhere, err
	}
	if processed {
		g.unlock(ctx, lease)
		return nil, AlreadyProcessed, nil
	}

	return lease, Acquired, nil
}

func (g *Guard) MarkProcessed(ctx context.Context, record *domain.WebhookEventRecord) error {
	if record.ProcessedAt.IsZero() {
		record.ProcessedAt = time.Now().UTC()
	}
	if err := g.events.Create(ctx, record); err != nil {
		return fmt.Errorf("mark event %s processed: %w", record.EventID, err)
	}
	return nil
}

// Release drops the lock held by lease. A nil lease is a no-op, and the store
// leaves a lock alone once another owner holds it.
func (g *Guard) Release(ctx context.Context, lease *Lease) error {
	if lease == nil {
		return nil
	}
	return g.unlock(ctx, lease)
}

func (g *Guard) unlock(ctx context.Context, lease *Lease) error {
	// release even when the request context is already cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := g.locks.Unlock(ctx, lease.EventID, lease.Owner); err != nil {
		g.log.Warn("failed to release event lock, it will expire",
			zap.String("event_id", lease.EventID), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrLockStoreDown, err)
	}
	return nil
}
