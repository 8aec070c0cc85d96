package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/billing"
	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/domain/stock"
)

// ChargeStockUpdater moves stock in step with charge items. It subscribes to
// post-commit financial act events and diffs each save's item states against
// the previous committed save: unchanged items produce no movement, quantity
// edits move the difference, a product or location change restocks the old
// pair and draws from the new one. Credits move stock the opposite way to
// invoices. Items without a stock location are ignored.
type ChargeStockUpdater struct {
	store  stock.StockStore
	logger *zap.Logger
}

// StockUpdaterOption configures a ChargeStockUpdater
type StockUpdaterOption func(*ChargeStockUpdater)

// WithUpdaterLogger sets the updater logger
func WithUpdaterLogger(logger *zap.Logger) StockUpdaterOption {
	return func(u *ChargeStockUpdater) {
		u.logger = logger
	}
}

// NewChargeStockUpdater creates a ChargeStockUpdater
func NewChargeStockUpdater(store stock.StockStore, opts ...StockUpdaterOption) *ChargeStockUpdater {
	u := &ChargeStockUpdater{
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

var _ shared.EventHandler = (*ChargeStockUpdater)(nil)

// EventTypes returns the event types the updater subscribes to
func (u *ChargeStockUpdater) EventTypes() []string {
	return []string{
		billing.EventTypeFinancialActSaved,
		billing.EventTypeFinancialActRemoved,
	}
}

// Handle processes a committed financial act mutation
func (u *ChargeStockUpdater) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *billing.FinancialActSavedEvent:
		if !e.Kind.IsCharge() {
			return nil
		}
		return u.apply(ctx, e.ActID, diff(e.PriorItems, e.Items, sign(e.Kind)))
	case *billing.FinancialActRemovedEvent:
		if !e.Kind.IsCharge() {
			return nil
		}
		// Removal reverses the act's last committed movements.
		return u.apply(ctx, e.ActID, diff(e.Items, nil, sign(e.Kind)))
	}
	return nil
}

func (u *ChargeStockUpdater) apply(ctx context.Context, actID uuid.UUID, deltas []stock.StockDelta) error {
	if len(deltas) == 0 {
		return nil
	}
	if err := u.store.AdjustLevels(ctx, deltas); err != nil {
		return err
	}
	u.logger.Debug("adjusted stock for charge",
		zap.String("act", actID.String()),
		zap.Int("deltas", len(deltas)))
	return nil
}

// sign maps the act kind to the stock direction of its current items:
// invoices and counter charges dispense (negative), credits return stock.
func sign(kind billing.ActKind) decimal.Decimal {
	if kind.IsCredit() {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(-1)
}

type levelKey struct {
	location uuid.UUID
	product  uuid.UUID
}

// diff computes the net movement from one committed item state to the next.
// The prior state is backed out and the current state applied; pairs that
// net to zero are dropped, so an unchanged save produces no deltas.
func diff(prior, current []billing.ChargeItemState, sign decimal.Decimal) []stock.StockDelta {
	net := make(map[levelKey]decimal.Decimal)
	order := make([]levelKey, 0, len(prior)+len(current))

	accumulate := func(states []billing.ChargeItemState, direction decimal.Decimal) {
		for _, state := range states {
			if state.StockLocationID == nil {
				continue
			}
			key := levelKey{location: *state.StockLocationID, product: state.ProductID}
			if _, seen := net[key]; !seen {
				order = append(order, key)
			}
			net[key] = net[key].Add(state.Quantity.Mul(direction))
		}
	}
	accumulate(prior, sign.Neg())
	accumulate(current, sign)

	deltas := make([]stock.StockDelta, 0, len(order))
	for _, key := range order {
		if net[key].IsZero() {
			continue
		}
		deltas = append(deltas, stock.StockDelta{
			LocationID: key.location,
			ProductID:  key.product,
			Quantity:   net[key],
		})
	}
	return deltas
}
