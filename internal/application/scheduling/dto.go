package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/scheduling"
)

// EventResponse is the API projection of a cached scheduling event
type EventResponse struct {
	ActID        uuid.UUID  `json:"act_id"`
	Kind         string     `json:"kind"`
	ScheduleID   uuid.UUID  `json:"schedule_id"`
	ScheduleName string     `json:"schedule_name,omitempty"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	UserName     string     `json:"user_name,omitempty"`
	CustomerID   *uuid.UUID `json:"customer_id,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
	PatientID    *uuid.UUID `json:"patient_id,omitempty"`
	PatientName  string     `json:"patient_name,omitempty"`
	Status       string     `json:"status"`
	Start        time.Time  `json:"start"`
	End          time.Time  `json:"end"`
}

// EventsResponse is a bucket snapshot with its modification hash
type EventsResponse struct {
	Events  []EventResponse `json:"events"`
	ModHash int64           `json:"mod_hash"`
}

// ToEventResponse converts a domain event projection to a response
func ToEventResponse(event scheduling.Event) EventResponse {
	return EventResponse{
		ActID:        event.ActID,
		Kind:         event.Kind.String(),
		ScheduleID:   event.ScheduleID,
		ScheduleName: event.ScheduleName,
		UserID:       event.UserID,
		UserName:     event.UserName,
		CustomerID:   event.CustomerID,
		CustomerName: event.CustomerName,
		PatientID:    event.PatientID,
		PatientName:  event.PatientName,
		Status:       event.Status,
		Start:        event.Times.Start,
		End:          event.Times.End,
	}
}

// ToEventsResponse converts a snapshot to a response
func ToEventsResponse(events scheduling.Events) EventsResponse {
	result := EventsResponse{
		Events:  make([]EventResponse, 0, len(events.Events)),
		ModHash: events.ModHash,
	}
	for _, event := range events.Events {
		result.Events = append(result.Events, ToEventResponse(event))
	}
	return result
}

// CreateShiftRequest creates one roster shift, optionally repeating
type CreateShiftRequest struct {
	AreaID      uuid.UUID  `json:"area_id" binding:"required"`
	UserID      *uuid.UUID `json:"user_id"`
	Start       time.Time  `json:"start" binding:"required"`
	End         time.Time  `json:"end" binding:"required"`
	RepeatRule  string     `json:"repeat_rule"`
	RepeatUntil *time.Time `json:"repeat_until"`
}

// UpdateShiftRequest reschedules or reassigns a shift
type UpdateShiftRequest struct {
	AreaID *uuid.UUID `json:"area_id"`
	UserID *uuid.UUID `json:"user_id"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

// ShiftResponse is the API projection of a roster shift
type ShiftResponse struct {
	ID         uuid.UUID  `json:"id"`
	AreaID     uuid.UUID  `json:"area_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Start      time.Time  `json:"start"`
	End        time.Time  `json:"end"`
	RepeatRule string     `json:"repeat_rule,omitempty"`
}

// ToShiftResponse converts a roster shift to a response
func ToShiftResponse(shift *scheduling.RosterShift) ShiftResponse {
	return ShiftResponse{
		ID:         shift.ID,
		AreaID:     shift.AreaID,
		UserID:     shift.UserID,
		Start:      shift.Times.Start,
		End:        shift.Times.End,
		RepeatRule: shift.RepeatRule,
	}
}

// ScheduleResponse is the API projection of an appointment schedule
type ScheduleResponse struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	AreaID   *uuid.UUID `json:"area_id,omitempty"`
	SlotSize string     `json:"slot_size"`
	Active   bool       `json:"active"`
}

// ToScheduleResponse converts a schedule to a response
func ToScheduleResponse(schedule *scheduling.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:       schedule.ID,
		Name:     schedule.Name,
		AreaID:   schedule.AreaID,
		SlotSize: schedule.SlotSize.String(),
		Active:   schedule.Active,
	}
}

// CreateAppointmentRequest books an appointment
type CreateAppointmentRequest struct {
	ScheduleID uuid.UUID  `json:"schedule_id" binding:"required"`
	CustomerID uuid.UUID  `json:"customer_id" binding:"required"`
	PatientID  uuid.UUID  `json:"patient_id" binding:"required"`
	UserID     *uuid.UUID `json:"user_id"`
	Start      time.Time  `json:"start" binding:"required"`
	End        time.Time  `json:"end" binding:"required"`
	Reason     string     `json:"reason"`
}

// RescheduleAppointmentRequest moves an appointment
type RescheduleAppointmentRequest struct {
	ScheduleID uuid.UUID `json:"schedule_id" binding:"required"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
}

// AppointmentResponse is the API projection of an appointment
type AppointmentResponse struct {
	ID         uuid.UUID  `json:"id"`
	ScheduleID uuid.UUID  `json:"schedule_id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	PatientID  uuid.UUID  `json:"patient_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Start      time.Time  `json:"start"`
	End        time.Time  `json:"end"`
	Status     string     `json:"status"`
	Reason     string     `json:"reason,omitempty"`
}

// ToAppointmentResponse converts an appointment to a response
func ToAppointmentResponse(appointment *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:         appointment.ID,
		ScheduleID: appointment.ScheduleID,
		CustomerID: appointment.CustomerID,
		PatientID:  appointment.PatientID,
		UserID:     appointment.UserID,
		Start:      appointment.Times.Start,
		End:        appointment.Times.End,
		Status:     appointment.Status.String(),
		Reason:     appointment.Reason,
	}
}

// TimeRange is a candidate interval for overlap checks
type TimeRange struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// OverlapRequest asks for a user's events overlapping candidate ranges
type OverlapRequest struct {
	UserID uuid.UUID   `json:"user_id" binding:"required"`
	Ranges []TimeRange `json:"ranges" binding:"required,min=1"`
	Limit  int         `json:"limit"`
}
