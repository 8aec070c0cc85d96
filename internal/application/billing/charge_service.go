package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/billing"
	"github.com/vetdesk/backend/internal/domain/party"
	"github.com/vetdesk/backend/internal/domain/shared"
)

// ChargeService manages charge acts: invoices, counter charges and credits
// with their items. Every mutation publishes a saved event carrying the item
// states from the previous committed save, which is what downstream handlers
// diff against.
type ChargeService struct {
	acts      billing.FinancialActRepository
	customers party.CustomerRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// ChargeServiceOption configures a ChargeService
type ChargeServiceOption func(*ChargeService)

// WithChargeLogger sets the service logger
func WithChargeLogger(logger *zap.Logger) ChargeServiceOption {
	return func(s *ChargeService) {
		s.logger = logger
	}
}

// NewChargeService creates a ChargeService
func NewChargeService(
	acts billing.FinancialActRepository,
	customers party.CustomerRepository,
	publisher shared.EventPublisher,
	opts ...ChargeServiceOption,
) *ChargeService {
	s := &ChargeService{
		acts:      acts,
		customers: customers,
		publisher: publisher,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCharge opens a charge act, optionally with initial items
func (s *ChargeService) CreateCharge(ctx context.Context, req CreateChargeRequest) (*FinancialActResponse, error) {
	kind := billing.ActKind(req.Kind)
	if !kind.IsCharge() {
		return nil, shared.NewDomainError("INVALID_ACT", "Not a charge kind: "+req.Kind)
	}
	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	act, err := billing.NewFinancialAct(req.CustomerID, kind, startTimeOrNow(req.StartTime))
	if err != nil {
		return nil, err
	}
	act.Notes = req.Notes
	for _, itemReq := range req.Items {
		item, err := newItem(itemReq)
		if err != nil {
			return nil, err
		}
		if err := act.AddItem(item); err != nil {
			return nil, err
		}
	}

	if err := s.acts.Save(ctx, act); err != nil {
		return nil, err
	}
	s.publishSaved(ctx, act, nil)
	s.logger.Info("created charge",
		zap.String("act", act.ID.String()),
		zap.String("kind", kind.String()),
		zap.Int("items", len(act.Items)))
	resp := ToFinancialActResponse(act)
	return &resp, nil
}

// GetAct loads one act with its items
func (s *ChargeService) GetAct(ctx context.Context, id uuid.UUID) (*FinancialActResponse, error) {
	act, err := s.acts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToFinancialActResponse(act)
	return &resp, nil
}

// ListCustomerActs lists a customer's acts matching the filter
func (s *ChargeService) ListCustomerActs(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]FinancialActResponse, error) {
	acts, err := s.acts.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]FinancialActResponse, len(acts))
	for i := range acts {
		responses[i] = ToFinancialActResponse(&acts[i])
	}
	return responses, nil
}

// AddItem appends a line to an unposted charge
func (s *ChargeService) AddItem(ctx context.Context, actID uuid.UUID, req ChargeItemRequest) (*FinancialActResponse, error) {
	return s.mutate(ctx, actID, func(act *billing.FinancialAct) error {
		item, err := newItem(req)
		if err != nil {
			return err
		}
		return act.AddItem(item)
	})
}

// UpdateItem replaces fields of an existing line on an unposted charge
func (s *ChargeService) UpdateItem(ctx context.Context, actID, itemID uuid.UUID, req UpdateChargeItemRequest) (*FinancialActResponse, error) {
	return s.mutate(ctx, actID, func(act *billing.FinancialAct) error {
		for _, item := range act.Items {
			if item.ID != itemID {
				continue
			}
			if req.ProductID != nil {
				item.ProductID = *req.ProductID
			}
			if req.StockLocationID != nil {
				item.StockLocationID = req.StockLocationID
			}
			if req.Quantity != nil {
				item.Quantity = *req.Quantity
			}
			if req.UnitPrice != nil {
				item.UnitPrice = *req.UnitPrice
			}
			return act.UpdateItem(item)
		}
		return shared.ErrNotFound
	})
}

// RemoveItem deletes a line from an unposted charge
func (s *ChargeService) RemoveItem(ctx context.Context, actID, itemID uuid.UUID) (*FinancialActResponse, error) {
	return s.mutate(ctx, actID, func(act *billing.FinancialAct) error {
		return act.RemoveItem(itemID)
	})
}

// Complete marks the act finished without putting it on the account
func (s *ChargeService) Complete(ctx context.Context, actID uuid.UUID) (*FinancialActResponse, error) {
	return s.mutate(ctx, actID, func(act *billing.FinancialAct) error {
		return act.Complete()
	})
}

// Post puts the act on the customer's account. The saved event it publishes
// is what wakes the balance engine.
func (s *ChargeService) Post(ctx context.Context, actID uuid.UUID) (*FinancialActResponse, error) {
	return s.mutate(ctx, actID, func(act *billing.FinancialAct) error {
		return act.Post()
	})
}

// DeleteAct removes an act. Removal of a posted act triggers reversal of its
// allocations and stock movements downstream.
func (s *ChargeService) DeleteAct(ctx context.Context, actID uuid.UUID) error {
	act, err := s.acts.FindByID(ctx, actID)
	if err != nil {
		return err
	}
	if err := s.acts.Delete(ctx, actID); err != nil {
		return err
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, billing.NewFinancialActRemovedEvent(act)); err != nil {
			s.logger.Error("failed to publish act removed event",
				zap.String("act", actID.String()), zap.Error(err))
		}
	}
	s.logger.Info("deleted act", zap.String("act", actID.String()))
	return nil
}

// mutate loads an act, snapshots its committed item states, applies the
// change and saves, then publishes with the snapshot as the prior state.
func (s *ChargeService) mutate(ctx context.Context, actID uuid.UUID, fn func(*billing.FinancialAct) error) (*FinancialActResponse, error) {
	act, err := s.acts.FindByID(ctx, actID)
	if err != nil {
		return nil, err
	}
	prior := itemStates(act)
	if err := fn(act); err != nil {
		return nil, err
	}
	if err := s.acts.Save(ctx, act); err != nil {
		return nil, err
	}
	s.publishSaved(ctx, act, prior)
	resp := ToFinancialActResponse(act)
	return &resp, nil
}

func (s *ChargeService) publishSaved(ctx context.Context, act *billing.FinancialAct, prior []billing.ChargeItemState) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, billing.NewFinancialActSavedEvent(act, prior)); err != nil {
		s.logger.Error("failed to publish act saved event",
			zap.String("act", act.ID.String()), zap.Error(err))
	}
}

func itemStates(act *billing.FinancialAct) []billing.ChargeItemState {
	if len(act.Items) == 0 {
		return nil
	}
	states := make([]billing.ChargeItemState, len(act.Items))
	for i, item := range act.Items {
		states[i] = item.State()
	}
	return states
}

func newItem(req ChargeItemRequest) (billing.ChargeItem, error) {
	item, err := billing.NewChargeItem(req.ProductID, req.PatientID, req.Quantity, req.UnitPrice)
	if err != nil {
		return billing.ChargeItem{}, err
	}
	item.StockLocationID = req.StockLocationID
	return item, nil
}
