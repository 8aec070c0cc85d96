package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeFinancialAct = "FinancialAct"

// Event type constants
const (
	EventTypeFinancialActSaved   = "FinancialActSaved"
	EventTypeFinancialActRemoved = "FinancialActRemoved"
)

// FinancialActSavedEvent is published after a financial act has been
// committed. PriorItems carries the item states from the act's previous
// committed save, nil on first save; the stock updater diffs the two to
// compute quantity deltas, which is what makes re-saves no-ops.
type FinancialActSavedEvent struct {
	shared.BaseDomainEvent
	ActID      uuid.UUID         `json:"act_id"`
	CustomerID uuid.UUID         `json:"customer_id"`
	Kind       ActKind           `json:"kind"`
	Status     ActStatus         `json:"status"`
	Total      decimal.Decimal   `json:"total"`
	Items      []ChargeItemState `json:"items,omitempty"`
	PriorItems []ChargeItemState `json:"prior_items,omitempty"`
}

// NewFinancialActSavedEvent creates a new FinancialActSavedEvent
func NewFinancialActSavedEvent(act *FinancialAct, priorItems []ChargeItemState) *FinancialActSavedEvent {
	event := &FinancialActSavedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFinancialActSaved, AggregateTypeFinancialAct, act.ID),
		ActID:           act.ID,
		CustomerID:      act.CustomerID,
		Kind:            act.Kind,
		Status:          act.Status,
		Total:           act.Total,
		PriorItems:      priorItems,
	}
	for _, item := range act.Items {
		event.Items = append(event.Items, item.State())
	}
	return event
}

// EventType returns the event type name
func (e *FinancialActSavedEvent) EventType() string {
	return EventTypeFinancialActSaved
}

// FinancialActRemovedEvent is published after a financial act has been
// deleted. Items reflects the act's last committed state so consumers can
// reverse its effects.
type FinancialActRemovedEvent struct {
	shared.BaseDomainEvent
	ActID      uuid.UUID         `json:"act_id"`
	CustomerID uuid.UUID         `json:"customer_id"`
	Kind       ActKind           `json:"kind"`
	Status     ActStatus         `json:"status"`
	Total      decimal.Decimal   `json:"total"`
	Items      []ChargeItemState `json:"items,omitempty"`
}

// NewFinancialActRemovedEvent creates a new FinancialActRemovedEvent
func NewFinancialActRemovedEvent(act *FinancialAct) *FinancialActRemovedEvent {
	event := &FinancialActRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFinancialActRemoved, AggregateTypeFinancialAct, act.ID),
		ActID:           act.ID,
		CustomerID:      act.CustomerID,
		Kind:            act.Kind,
		Status:          act.Status,
		Total:           act.Total,
	}
	for _, item := range act.Items {
		event.Items = append(event.Items, item.State())
	}
	return event
}

// EventType returns the event type name
func (e *FinancialActRemovedEvent) EventType() string {
	return EventTypeFinancialActRemoved
}
