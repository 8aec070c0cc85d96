package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/scheduling"
)

// GormEventQueryFactory builds event projection queries over the appointment
// and roster shift tables. The projections join display names in so cache
// population is a single round trip per bucket.
type GormEventQueryFactory struct {
	db *gorm.DB
}

// NewGormEventQueryFactory creates a new GormEventQueryFactory
func NewGormEventQueryFactory(db *gorm.DB) *GormEventQueryFactory {
	return &GormEventQueryFactory{db: db}
}

// NewEventQuery builds an EventQuery for the event kind and subject kind
func (f *GormEventQueryFactory) NewEventQuery(kind scheduling.EventKind, subject scheduling.SubjectKind) scheduling.EventQuery {
	if kind == scheduling.EventKindRosterShift {
		return &shiftEventQuery{db: f.db, subject: subject}
	}
	return &appointmentEventQuery{db: f.db, subject: subject}
}

// appointmentEventRow is the scan target for the appointment projection join
type appointmentEventRow struct {
	ID           uuid.UUID
	ScheduleID   uuid.UUID
	CustomerID   uuid.UUID
	PatientID    uuid.UUID
	UserID       *uuid.UUID
	StartTime    time.Time
	EndTime      time.Time
	Status       string
	ScheduleName string
	UserName     *string
	CustomerName string
	PatientName  string
}

type appointmentEventQuery struct {
	db      *gorm.DB
	subject scheduling.SubjectKind
}

// EventsIn returns the appointment events for the subject intersecting
// [from, to), ordered by start time
func (q *appointmentEventQuery) EventsIn(ctx context.Context, subject uuid.UUID, from, to time.Time) ([]scheduling.Event, error) {
	query := q.db.WithContext(ctx).
		Table("appointments").
		Select("appointments.id, appointments.schedule_id, appointments.customer_id, appointments.patient_id, "+
			"appointments.user_id, appointments.start_time, appointments.end_time, appointments.status, "+
			"schedules.name AS schedule_name, users.name AS user_name, "+
			"customers.first_name || ' ' || customers.last_name AS customer_name, patients.name AS patient_name").
		Joins("JOIN schedules ON schedules.id = appointments.schedule_id").
		Joins("JOIN customers ON customers.id = appointments.customer_id").
		Joins("JOIN patients ON patients.id = appointments.patient_id").
		Joins("LEFT JOIN users ON users.id = appointments.user_id").
		Where("appointments.start_time < ? AND appointments.end_time > ?", to, from)

	if q.subject == scheduling.SubjectUser {
		query = query.Where("appointments.user_id = ?", subject)
	} else {
		query = query.Where("appointments.schedule_id = ?", subject)
	}

	var rows []appointmentEventRow
	if err := query.Order("appointments.start_time ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]scheduling.Event, len(rows))
	for i, row := range rows {
		customerID := row.CustomerID
		patientID := row.PatientID
		events[i] = scheduling.Event{
			ActID:        row.ID,
			Kind:         scheduling.EventKindAppointment,
			ScheduleID:   row.ScheduleID,
			ScheduleName: row.ScheduleName,
			UserID:       row.UserID,
			UserName:     stringOrEmpty(row.UserName),
			CustomerID:   &customerID,
			CustomerName: row.CustomerName,
			PatientID:    &patientID,
			PatientName:  row.PatientName,
			Status:       row.Status,
			Times:        scheduling.Times{Start: row.StartTime, End: row.EndTime},
		}
	}
	return events, nil
}

// shiftEventRow is the scan target for the roster shift projection join
type shiftEventRow struct {
	ID        uuid.UUID
	AreaID    uuid.UUID
	UserID    *uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	AreaName  string
	UserName  *string
}

func (row shiftEventRow) toEvent() scheduling.Event {
	return scheduling.Event{
		ActID:        row.ID,
		Kind:         scheduling.EventKindRosterShift,
		ScheduleID:   row.AreaID,
		ScheduleName: row.AreaName,
		UserID:       row.UserID,
		UserName:     stringOrEmpty(row.UserName),
		Status:       "ROSTERED",
		Times:        scheduling.Times{Start: row.StartTime, End: row.EndTime},
	}
}

type shiftEventQuery struct {
	db      *gorm.DB
	subject scheduling.SubjectKind
}

// EventsIn returns the roster shift events for the subject intersecting
// [from, to), ordered by start time. Repeating shifts are materialized as
// one-off rows when created, so one row is always one staffing interval.
func (q *shiftEventQuery) EventsIn(ctx context.Context, subject uuid.UUID, from, to time.Time) ([]scheduling.Event, error) {
	query := q.db.WithContext(ctx).
		Table("roster_shifts").
		Select("roster_shifts.id, roster_shifts.area_id, roster_shifts.user_id, roster_shifts.start_time, "+
			"roster_shifts.end_time, roster_areas.name AS area_name, users.name AS user_name").
		Joins("JOIN roster_areas ON roster_areas.id = roster_shifts.area_id").
		Joins("LEFT JOIN users ON users.id = roster_shifts.user_id").
		Where("roster_shifts.start_time < ? AND roster_shifts.end_time > ?", to, from)

	if q.subject == scheduling.SubjectUser {
		query = query.Where("roster_shifts.user_id = ?", subject)
	} else {
		query = query.Where("roster_shifts.area_id = ?", subject)
	}

	var rows []shiftEventRow
	if err := query.Order("roster_shifts.start_time ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]scheduling.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toEvent()
	}
	return events, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ensure GormEventQueryFactory implements EventQueryFactory
var _ scheduling.EventQueryFactory = (*GormEventQueryFactory)(nil)
