package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/scheduling"
)

// GormOverlapQuery finds a user's existing events intersecting candidate
// ranges, for double-booking checks
type GormOverlapQuery struct {
	db *gorm.DB
}

// NewGormOverlapQuery creates a new GormOverlapQuery
func NewGormOverlapQuery(db *gorm.DB) *GormOverlapQuery {
	return &GormOverlapQuery{db: db}
}

// Overlapping returns up to limit of the user's events whose interval
// overlaps any of the given ranges, or nil when none do
func (q *GormOverlapQuery) Overlapping(ctx context.Context, kind scheduling.EventKind, user uuid.UUID, ranges []scheduling.Times, limit int) ([]scheduling.Event, error) {
	if len(ranges) == 0 {
		return nil, nil
	}
	if kind == scheduling.EventKindRosterShift {
		return q.overlappingShifts(ctx, user, ranges, limit)
	}
	return q.overlappingAppointments(ctx, user, ranges, limit)
}

func (q *GormOverlapQuery) overlappingAppointments(ctx context.Context, user uuid.UUID, ranges []scheduling.Times, limit int) ([]scheduling.Event, error) {
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
		Where("appointments.user_id = ?", user).
		Where("appointments.status NOT IN ?", []string{
			scheduling.AppointmentStatusCancelled.String(),
			scheduling.AppointmentStatusNoShow.String(),
		}).
		Where(q.rangePredicate("appointments", ranges)).
		Order("appointments.start_time ASC").
		Limit(limit)

	var rows []appointmentEventRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
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

// overlappingShifts matches shift rows in SQL. Repeating shifts are
// materialized as one-off rows when created, so no in-memory expansion is
// needed here either.
func (q *GormOverlapQuery) overlappingShifts(ctx context.Context, user uuid.UUID, ranges []scheduling.Times, limit int) ([]scheduling.Event, error) {
	query := q.db.WithContext(ctx).
		Table("roster_shifts").
		Select("roster_shifts.id, roster_shifts.area_id, roster_shifts.user_id, roster_shifts.start_time, "+
			"roster_shifts.end_time, roster_areas.name AS area_name, users.name AS user_name").
		Joins("JOIN roster_areas ON roster_areas.id = roster_shifts.area_id").
		Joins("LEFT JOIN users ON users.id = roster_shifts.user_id").
		Where("roster_shifts.user_id = ?", user).
		Where(q.rangePredicate("roster_shifts", ranges)).
		Order("roster_shifts.start_time ASC").
		Limit(limit)

	var rows []shiftEventRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	events := make([]scheduling.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toEvent()
	}
	return events, nil
}

// rangePredicate ORs the half-open interval checks for each candidate range
func (q *GormOverlapQuery) rangePredicate(table string, ranges []scheduling.Times) *gorm.DB {
	predicate := q.db.Where(table+".start_time < ? AND "+table+".end_time > ?", ranges[0].End, ranges[0].Start)
	for _, r := range ranges[1:] {
		predicate = predicate.Or(table+".start_time < ? AND "+table+".end_time > ?", r.End, r.Start)
	}
	return predicate
}

// Ensure GormOverlapQuery implements OverlapQuery
var _ scheduling.OverlapQuery = (*GormOverlapQuery)(nil)
