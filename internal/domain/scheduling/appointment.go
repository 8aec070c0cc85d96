package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending    AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed  AppointmentStatus = "CONFIRMED"
	AppointmentStatusCheckedIn  AppointmentStatus = "CHECKED_IN"
	AppointmentStatusInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled  AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow     AppointmentStatus = "NO_SHOW"
)

// IsValid checks if the status is a valid AppointmentStatus
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCheckedIn,
		AppointmentStatusInProgress, AppointmentStatusCompleted, AppointmentStatusCancelled,
		AppointmentStatusNoShow:
		return true
	}
	return false
}

// String returns the string representation of AppointmentStatus
func (s AppointmentStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the appointment can no longer change
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled || s == AppointmentStatusNoShow
}

// Appointment is a booked consultation on a schedule for a patient.
type Appointment struct {
	shared.BaseAggregateRoot
	ScheduleID uuid.UUID
	CustomerID uuid.UUID
	PatientID  uuid.UUID
	UserID     *uuid.UUID // clinician, optional until triaged
	Times      Times
	Status     AppointmentStatus
	Reason     string
	Notes      string
}

// NewAppointment books an appointment on a schedule
func NewAppointment(scheduleID, customerID, patientID uuid.UUID, times Times, reason string) (*Appointment, error) {
	if scheduleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPOINTMENT", "Appointment must reference a schedule")
	}
	if customerID == uuid.Nil || patientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPOINTMENT", "Appointment must reference a customer and patient")
	}
	return &Appointment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ScheduleID:        scheduleID,
		CustomerID:        customerID,
		PatientID:         patientID,
		Times:             times,
		Status:            AppointmentStatusPending,
		Reason:            reason,
	}, nil
}

// AssignClinician sets the treating clinician
func (a *Appointment) AssignClinician(userID uuid.UUID) error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot reassign a finished appointment")
	}
	a.UserID = &userID
	a.UpdatedAt = time.Now()
	return nil
}

// Reschedule moves the appointment, possibly to a different schedule
func (a *Appointment) Reschedule(scheduleID uuid.UUID, times Times) error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot reschedule a finished appointment")
	}
	if scheduleID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPOINTMENT", "Appointment must reference a schedule")
	}
	a.ScheduleID = scheduleID
	a.Times = times
	a.UpdatedAt = time.Now()
	return nil
}

// Transition moves the appointment through its workflow
func (a *Appointment) Transition(status AppointmentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown appointment status: "+status.String())
	}
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Appointment is already "+a.Status.String())
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

// Projection builds the cache Event for this appointment using the given display names
func (a *Appointment) Projection(scheduleName, userName, customerName, patientName string) Event {
	customerID := a.CustomerID
	patientID := a.PatientID
	return Event{
		ActID:        a.ID,
		Kind:         EventKindAppointment,
		ScheduleID:   a.ScheduleID,
		ScheduleName: scheduleName,
		UserID:       a.UserID,
		UserName:     userName,
		CustomerID:   &customerID,
		CustomerName: customerName,
		PatientID:    &patientID,
		PatientName:  patientName,
		Status:       a.Status.String(),
		Times:        a.Times,
	}
}
