package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// EventQuery returns committed event projections for one cache subject.
// The subject is a schedule/area reference or a user reference depending on
// how the query was built; the caller (the event cache) is agnostic.
type EventQuery interface {
	// EventsIn returns the events for the subject whose interval intersects
	// [from, to), ordered by start time.
	EventsIn(ctx context.Context, subject uuid.UUID, from, to time.Time) ([]Event, error)
}

// EventQueryFactory builds an EventQuery for an event kind and subject kind.
// The two cache instances of a service share one factory but query different
// subject columns.
type EventQueryFactory interface {
	NewEventQuery(kind EventKind, subject SubjectKind) EventQuery
}

// OverlapQuery finds a user's existing events that intersect candidate ranges.
type OverlapQuery interface {
	// Overlapping returns up to limit events for the user whose interval
	// overlaps any of the given ranges, or nil when none do.
	Overlapping(ctx context.Context, kind EventKind, user uuid.UUID, ranges []Times, limit int) ([]Event, error)
}

// RosterAreaRepository defines the interface for roster area persistence
type RosterAreaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RosterArea, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]RosterArea, error)
	Save(ctx context.Context, area *RosterArea) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ScheduleRepository defines the interface for appointment schedule persistence
type ScheduleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Schedule, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Schedule, error)
	// FindActiveByArea returns the active schedules linked to a roster area.
	// Always a fresh query; listings must reflect commits immediately.
	FindActiveByArea(ctx context.Context, areaID uuid.UUID) ([]Schedule, error)
	Save(ctx context.Context, schedule *Schedule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RosterShiftRepository defines the interface for roster shift persistence
type RosterShiftRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RosterShift, error)
	FindByArea(ctx context.Context, areaID uuid.UUID, from, to time.Time) ([]RosterShift, error)
	FindByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]RosterShift, error)
	Save(ctx context.Context, shift *RosterShift) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	FindBySchedule(ctx context.Context, scheduleID uuid.UUID, from, to time.Time) ([]Appointment, error)
	FindByPatient(ctx context.Context, patientID uuid.UUID, filter shared.Filter) ([]Appointment, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Appointment, error)
	Save(ctx context.Context, appointment *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
