package billing

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/billing"
	"github.com/vetdesk/backend/internal/domain/shared"
)

const (
	balanceLockTTL   = 10 * time.Second
	balanceLockRetry = 50 * time.Millisecond
)

// BalanceUpdater keeps customer accounts allocated. It subscribes to
// post-commit financial act events: a posted act with an unallocated
// remainder triggers an allocation pass for its customer, a removal first
// reverses the act's allocations and then re-runs the pass.
//
// Concurrent postings for the same customer are serialized by an optional
// Redis lock; without it, correctness rests on the backing store's
// transaction isolation, which callers must size for their write rates.
type BalanceUpdater struct {
	acts        billing.FinancialActRepository
	allocations billing.AllocationRepository
	store       billing.BalanceStore
	service     *billing.BalanceService
	locker      *redislock.Client
	metrics     AllocationMetrics
	logger      *zap.Logger
}

// AllocationMetrics counts applied allocation passes.
type AllocationMetrics interface {
	RecordAllocationPass(ctx context.Context, created int)
}

// BalanceUpdaterOption configures a BalanceUpdater
type BalanceUpdaterOption func(*BalanceUpdater)

// WithBalanceLocker enables per-customer serialization via Redis
func WithBalanceLocker(locker *redislock.Client) BalanceUpdaterOption {
	return func(u *BalanceUpdater) {
		u.locker = locker
	}
}

// WithBalanceMetrics sets the allocation pass counter sink
func WithBalanceMetrics(metrics AllocationMetrics) BalanceUpdaterOption {
	return func(u *BalanceUpdater) {
		u.metrics = metrics
	}
}

// WithBalanceLogger sets the updater logger
func WithBalanceLogger(logger *zap.Logger) BalanceUpdaterOption {
	return func(u *BalanceUpdater) {
		u.logger = logger
	}
}

// NewBalanceUpdater creates a BalanceUpdater
func NewBalanceUpdater(
	acts billing.FinancialActRepository,
	allocations billing.AllocationRepository,
	store billing.BalanceStore,
	opts ...BalanceUpdaterOption,
) *BalanceUpdater {
	u := &BalanceUpdater{
		acts:        acts,
		allocations: allocations,
		store:       store,
		service:     billing.NewBalanceService(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

var _ shared.EventHandler = (*BalanceUpdater)(nil)

// EventTypes returns the event types the updater subscribes to
func (u *BalanceUpdater) EventTypes() []string {
	return []string{
		billing.EventTypeFinancialActSaved,
		billing.EventTypeFinancialActRemoved,
	}
}

// Handle processes a committed financial act mutation
func (u *BalanceUpdater) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *billing.FinancialActSavedEvent:
		return u.onSaved(ctx, e)
	case *billing.FinancialActRemovedEvent:
		return u.onRemoved(ctx, e)
	}
	return nil
}

func (u *BalanceUpdater) onSaved(ctx context.Context, event *billing.FinancialActSavedEvent) error {
	if event.Status != billing.ActStatusPosted {
		return nil
	}
	act, err := u.acts.FindByID(ctx, event.ActID)
	if err != nil {
		return err
	}
	// Re-saving an already allocated act is a no-op: nothing to allocate,
	// no relationships touched.
	if u.service.InBalance(act) {
		return nil
	}
	return u.withCustomerLock(ctx, act.CustomerID, func() error {
		return u.updateBalance(ctx, act.CustomerID)
	})
}

func (u *BalanceUpdater) onRemoved(ctx context.Context, event *billing.FinancialActRemovedEvent) error {
	if event.Status != billing.ActStatusPosted {
		return nil
	}
	return u.withCustomerLock(ctx, event.CustomerID, func() error {
		if err := u.reverseAllocations(ctx, event); err != nil {
			return err
		}
		// Freed counterpart remainders may now allocate against each other.
		return u.updateBalance(ctx, event.CustomerID)
	})
}

// updateBalance runs one allocation pass for a customer and persists the
// result in a single transaction.
func (u *BalanceUpdater) updateBalance(ctx context.Context, customerID uuid.UUID) error {
	acts, err := u.acts.FindUnallocated(ctx, customerID)
	if err != nil {
		return err
	}
	if len(acts) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(acts))
	for i, act := range acts {
		ids[i] = act.ID
	}
	existing, err := u.allocations.FindByActs(ctx, ids)
	if err != nil {
		return err
	}
	change, err := u.service.Allocate(acts, existing)
	if err != nil {
		return err
	}
	if change.IsEmpty() {
		return nil
	}
	if err := u.store.ApplyAllocation(ctx, change, nil); err != nil {
		return err
	}
	if u.metrics != nil {
		u.metrics.RecordAllocationPass(ctx, len(change.Created))
	}
	u.logger.Debug("allocated customer balance",
		zap.String("customer", customerID.String()),
		zap.Int("acts", len(change.Acts)),
		zap.Int("relationships", len(change.Created)+len(change.Updated)))
	return nil
}

// reverseAllocations unwinds the allocations touching a removed act: the
// surviving counterparts get the amounts subtracted and the relationship
// rows are deleted, all in one transaction. The removed act itself is gone
// from the store, so a shadow carrying its identity and allocated total
// stands in for it during the reversal.
func (u *BalanceUpdater) reverseAllocations(ctx context.Context, event *billing.FinancialActRemovedEvent) error {
	allocations, err := u.allocations.FindByAct(ctx, event.ActID)
	if err != nil {
		return err
	}
	if len(allocations) == 0 {
		return nil
	}

	counterpartIDs := make([]uuid.UUID, 0, len(allocations))
	deleted := make([]uuid.UUID, 0, len(allocations))
	allocated := decimal.Zero
	for _, allocation := range allocations {
		otherID := allocation.SourceID
		if otherID == event.ActID {
			otherID = allocation.TargetID
		}
		counterpartIDs = append(counterpartIDs, otherID)
		deleted = append(deleted, allocation.ID)
		allocated = allocated.Add(allocation.Amount)
	}
	counterparts, err := u.acts.FindByIDs(ctx, counterpartIDs)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*billing.FinancialAct, len(counterparts))
	for _, act := range counterparts {
		byID[act.ID] = act
	}

	shadow, err := billing.NewFixedAct(event.CustomerID, event.Kind, time.Now(), event.Total)
	if err != nil {
		return err
	}
	shadow.ID = event.ActID
	shadow.Status = billing.ActStatusPosted
	shadow.AllocatedAmount = allocated

	change, err := u.service.Reverse(shadow, byID, allocations)
	if err != nil {
		return err
	}
	// The shadow has no row to update.
	survivors := change.Acts[:0]
	for _, act := range change.Acts {
		if act.ID != event.ActID {
			survivors = append(survivors, act)
		}
	}
	change.Acts = survivors
	return u.store.ApplyAllocation(ctx, change, deleted)
}

func (u *BalanceUpdater) withCustomerLock(ctx context.Context, customerID uuid.UUID, fn func() error) error {
	if u.locker == nil {
		return fn()
	}
	lock, err := u.locker.Obtain(ctx, "balance:"+customerID.String(), balanceLockTTL, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(balanceLockRetry),
	})
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.Release(ctx); releaseErr != nil {
			u.logger.Warn("failed to release balance lock",
				zap.String("customer", customerID.String()),
				zap.Error(releaseErr))
		}
	}()
	return fn()
}
