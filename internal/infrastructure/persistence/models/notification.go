package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/notification"
)

// ReminderModel is the GORM model for appointment reminders
type ReminderModel struct {
	AggregateModel
	AppointmentID uuid.UUID `gorm:"column:appointment_id;type:uuid;not null;index"`
	CustomerID    uuid.UUID `gorm:"column:customer_id;type:uuid;not null"`
	PatientID     uuid.UUID `gorm:"column:patient_id;type:uuid;not null"`
	Recipient     string    `gorm:"column:recipient;not null"`
	ScheduleName  string    `gorm:"column:schedule_name"`
	SendAt        time.Time `gorm:"column:send_at;not null;index"`
	Status        string    `gorm:"column:status;not null;index"`
	Message       string    `gorm:"column:message;type:text"`
	LastError     string    `gorm:"column:last_error;type:text"`
}

// TableName specifies the table name for ReminderModel
func (ReminderModel) TableName() string {
	return "reminders"
}

// ToDomain converts ReminderModel to domain Reminder
func (m *ReminderModel) ToDomain() *notification.Reminder {
	return &notification.Reminder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AppointmentID:     m.AppointmentID,
		CustomerID:        m.CustomerID,
		PatientID:         m.PatientID,
		Recipient:         m.Recipient,
		ScheduleName:      m.ScheduleName,
		SendAt:            m.SendAt,
		Status:            notification.ReminderStatus(m.Status),
		Message:           m.Message,
		LastError:         m.LastError,
	}
}

// ReminderModelFromDomain creates ReminderModel from domain Reminder
func ReminderModelFromDomain(r *notification.Reminder) *ReminderModel {
	model := &ReminderModel{
		AppointmentID: r.AppointmentID,
		CustomerID:    r.CustomerID,
		PatientID:     r.PatientID,
		Recipient:     r.Recipient,
		ScheduleName:  r.ScheduleName,
		SendAt:        r.SendAt,
		Status:        r.Status.String(),
		Message:       r.Message,
		LastError:     r.LastError,
	}
	model.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return model
}
