package scheduling

import (
	"github.com/vetdesk/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeAppointment = "Appointment"
	AggregateTypeRosterShift = "RosterShift"
)

// Event type constants
const (
	EventTypeScheduleEventSaved   = "ScheduleEventSaved"
	EventTypeScheduleEventRemoved = "ScheduleEventRemoved"
)

// ScheduleEventSavedEvent is published after a scheduling act (appointment or
// roster shift) has been committed. It carries the act's committed state as a
// cache projection so subscribers never touch uncommitted data. Prior is the
// act's previous committed state, nil on first save; caches need it to
// invalidate the buckets an act moved out of.
type ScheduleEventSavedEvent struct {
	shared.BaseDomainEvent
	Event Event  `json:"event"`
	Prior *Event `json:"prior,omitempty"`
}

// NewScheduleEventSavedEvent creates a new ScheduleEventSavedEvent
func NewScheduleEventSavedEvent(event Event, prior *Event) *ScheduleEventSavedEvent {
	aggregateType := AggregateTypeAppointment
	if event.Kind == EventKindRosterShift {
		aggregateType = AggregateTypeRosterShift
	}
	return &ScheduleEventSavedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeScheduleEventSaved, aggregateType, event.ActID),
		Event:           event,
		Prior:           prior,
	}
}

// EventType returns the event type name
func (e *ScheduleEventSavedEvent) EventType() string {
	return EventTypeScheduleEventSaved
}

// ScheduleEventRemovedEvent is published after a scheduling act has been
// deleted. The projection reflects the act's last committed state.
type ScheduleEventRemovedEvent struct {
	shared.BaseDomainEvent
	Event Event `json:"event"`
}

// NewScheduleEventRemovedEvent creates a new ScheduleEventRemovedEvent
func NewScheduleEventRemovedEvent(event Event) *ScheduleEventRemovedEvent {
	aggregateType := AggregateTypeAppointment
	if event.Kind == EventKindRosterShift {
		aggregateType = AggregateTypeRosterShift
	}
	return &ScheduleEventRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeScheduleEventRemoved, aggregateType, event.ActID),
		Event:           event,
	}
}

// EventType returns the event type name
func (e *ScheduleEventRemovedEvent) EventType() string {
	return EventTypeScheduleEventRemoved
}
