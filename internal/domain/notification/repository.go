package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReminderRepository defines the interface for reminder persistence
type ReminderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Reminder, error)

	// FindDue finds pending reminders whose send time has passed
	FindDue(ctx context.Context, now time.Time, limit int) ([]*Reminder, error)

	// FindByAppointment finds the reminders scheduled for an appointment
	FindByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Reminder, error)

	Save(ctx context.Context, reminder *Reminder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Transport delivers a rendered reminder to its recipient. The SMS or mail
// gateway behind it is an external collaborator; the logging implementation
// stands in where none is configured.
type Transport interface {
	Send(ctx context.Context, recipient, message string) error
}
