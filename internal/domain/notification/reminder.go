package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// ReminderStatus represents the dispatch state of a reminder
type ReminderStatus string

const (
	ReminderStatusPending   ReminderStatus = "PENDING"
	ReminderStatusSent      ReminderStatus = "SENT"
	ReminderStatusFailed    ReminderStatus = "FAILED"
	ReminderStatusCancelled ReminderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ReminderStatus
func (s ReminderStatus) IsValid() bool {
	switch s {
	case ReminderStatusPending, ReminderStatusSent, ReminderStatusFailed, ReminderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReminderStatus
func (s ReminderStatus) String() string {
	return string(s)
}

// Reminder is a pending notification for an upcoming appointment. It is
// scheduled when the appointment is booked and dispatched by the cron sweep
// once SendAt passes.
type Reminder struct {
	shared.BaseAggregateRoot
	AppointmentID uuid.UUID
	CustomerID    uuid.UUID
	PatientID     uuid.UUID
	Recipient     string
	ScheduleName  string
	SendAt        time.Time
	Status        ReminderStatus
	Message       string
	LastError     string
}

// NewReminder schedules a reminder for an appointment
func NewReminder(appointmentID, customerID, patientID uuid.UUID, recipient string, sendAt time.Time) (*Reminder, error) {
	if appointmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REMINDER", "Reminder must reference an appointment")
	}
	if recipient == "" {
		return nil, shared.NewDomainError("INVALID_REMINDER", "Reminder needs a recipient")
	}
	return &Reminder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AppointmentID:     appointmentID,
		CustomerID:        customerID,
		PatientID:         patientID,
		Recipient:         recipient,
		SendAt:            sendAt,
		Status:            ReminderStatusPending,
	}, nil
}

// IsDue reports whether the reminder should be dispatched at the given time
func (r *Reminder) IsDue(now time.Time) bool {
	return r.Status == ReminderStatusPending && !r.SendAt.After(now)
}

// MarkSent records a successful dispatch with the rendered message
func (r *Reminder) MarkSent(message string) error {
	if r.Status != ReminderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending reminders can be sent")
	}
	r.Status = ReminderStatusSent
	r.Message = message
	r.LastError = ""
	r.UpdatedAt = time.Now()
	return nil
}

// MarkFailed records a dispatch failure, leaving the reminder pending so the
// next sweep retries it.
func (r *Reminder) MarkFailed(cause string) {
	r.Status = ReminderStatusFailed
	r.LastError = cause
	r.UpdatedAt = time.Now()
}

// Cancel withdraws a pending reminder, typically because the appointment
// moved or was cancelled.
func (r *Reminder) Cancel() error {
	if r.Status != ReminderStatusPending && r.Status != ReminderStatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Reminder is already dispatched")
	}
	r.Status = ReminderStatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// Retry returns a failed reminder to the pending queue
func (r *Reminder) Retry() error {
	if r.Status != ReminderStatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Only failed reminders can be retried")
	}
	r.Status = ReminderStatusPending
	r.UpdatedAt = time.Now()
	return nil
}
