package scheduling

import (
	"github.com/google/uuid"
)

// EventKind identifies which scheduling act an Event projects.
type EventKind string

const (
	EventKindAppointment EventKind = "APPOINTMENT"
	EventKindRosterShift EventKind = "ROSTER_SHIFT"
)

// IsValid checks if the kind is a valid EventKind
func (k EventKind) IsValid() bool {
	return k == EventKindAppointment || k == EventKindRosterShift
}

// String returns the string representation of EventKind
func (k EventKind) String() string {
	return string(k)
}

// SubjectKind selects which reference of an event a query or cache buckets by.
type SubjectKind string

const (
	// SubjectSchedule buckets events by their schedule or roster area.
	SubjectSchedule SubjectKind = "SCHEDULE"
	// SubjectUser buckets events by their assigned user.
	SubjectUser SubjectKind = "USER"
)

// IsValid checks if the subject kind is valid
func (k SubjectKind) IsValid() bool {
	return k == SubjectSchedule || k == SubjectUser
}

// Event is a read-only projection of a scheduling act, built from a query
// when a cache bucket is populated and discarded when the bucket is evicted.
// It is never a live reference into an aggregate.
type Event struct {
	ActID        uuid.UUID  `json:"act_id"`
	Kind         EventKind  `json:"kind"`
	ScheduleID   uuid.UUID  `json:"schedule_id"`
	ScheduleName string     `json:"schedule_name,omitempty"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	UserName     string     `json:"user_name,omitempty"`
	CustomerID   *uuid.UUID `json:"customer_id,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
	PatientID    *uuid.UUID `json:"patient_id,omitempty"`
	PatientName  string     `json:"patient_name,omitempty"`
	Status       string     `json:"status"`
	Times        Times      `json:"times"`
}

// Subject returns the reference the event is bucketed by for the given
// subject kind. The second result is false when the event has no such
// reference (e.g. an unassigned shift queried by user).
func (e Event) Subject(kind SubjectKind) (uuid.UUID, bool) {
	switch kind {
	case SubjectUser:
		if e.UserID == nil {
			return uuid.Nil, false
		}
		return *e.UserID, true
	default:
		return e.ScheduleID, true
	}
}

// NotCached is the modification hash sentinel for an absent bucket.
const NotCached int64 = -1

// Events is an immutable snapshot of the events for one (entity, day) bucket
// together with the bucket's modification hash at snapshot time.
type Events struct {
	Events  []Event `json:"events"`
	ModHash int64   `json:"mod_hash"`
}
