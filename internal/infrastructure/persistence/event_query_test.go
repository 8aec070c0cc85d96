package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/scheduling"
)

// newMockEventQueryFactory creates a GormEventQueryFactory with a mocked SQL connection
func newMockEventQueryFactory(t *testing.T) (*GormEventQueryFactory, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormEventQueryFactory(gormDB), mock, mockDB
}

func TestAppointmentEventQuery_EventsIn(t *testing.T) {
	t.Run("projects appointments with joined display names", func(t *testing.T) {
		factory, mock, mockDB := newMockEventQueryFactory(t)
		defer mockDB.Close()

		scheduleID := uuid.New()
		appointmentID := uuid.New()
		customerID := uuid.New()
		patientID := uuid.New()
		userID := uuid.New()
		from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		to := from.Add(24 * time.Hour)

		rows := sqlmock.NewRows([]string{
			"id", "schedule_id", "customer_id", "patient_id", "user_id",
			"start_time", "end_time", "status",
			"schedule_name", "user_name", "customer_name", "patient_name",
		}).AddRow(
			appointmentID, scheduleID, customerID, patientID, userID,
			from.Add(9*time.Hour), from.Add(9*time.Hour+30*time.Minute), "CONFIRMED",
			"Consult Room 1", "Dr Jess Wong", "Sam Briggs", "Rex",
		)

		mock.ExpectQuery(`SELECT .* FROM appointments JOIN schedules .* JOIN customers .* JOIN patients .* LEFT JOIN users .* WHERE appointments\.start_time < \$1 AND appointments\.end_time > \$2 AND appointments\.schedule_id = \$3`).
			WithArgs(to, from, scheduleID).
			WillReturnRows(rows)

		query := factory.NewEventQuery(scheduling.EventKindAppointment, scheduling.SubjectSchedule)
		events, err := query.EventsIn(context.Background(), scheduleID, from, to)

		assert.NoError(t, err)
		require.Len(t, events, 1)
		event := events[0]
		assert.Equal(t, appointmentID, event.ActID)
		assert.Equal(t, scheduling.EventKindAppointment, event.Kind)
		assert.Equal(t, "Consult Room 1", event.ScheduleName)
		assert.Equal(t, "Dr Jess Wong", event.UserName)
		assert.Equal(t, "Sam Briggs", event.CustomerName)
		assert.Equal(t, "Rex", event.PatientName)
		assert.Equal(t, "CONFIRMED", event.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("buckets by user when built for the user subject", func(t *testing.T) {
		factory, mock, mockDB := newMockEventQueryFactory(t)
		defer mockDB.Close()

		userID := uuid.New()
		from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		to := from.Add(24 * time.Hour)

		mock.ExpectQuery(`SELECT .* FROM appointments .* WHERE appointments\.start_time < \$1 AND appointments\.end_time > \$2 AND appointments\.user_id = \$3`).
			WithArgs(to, from, userID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		query := factory.NewEventQuery(scheduling.EventKindAppointment, scheduling.SubjectUser)
		events, err := query.EventsIn(context.Background(), userID, from, to)

		assert.NoError(t, err)
		assert.Empty(t, events)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShiftEventQuery_EventsIn(t *testing.T) {
	t.Run("maps shift rows one to one with joined display names", func(t *testing.T) {
		factory, mock, mockDB := newMockEventQueryFactory(t)
		defer mockDB.Close()

		areaID := uuid.New()
		shiftID := uuid.New()
		userID := uuid.New()
		from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday
		to := from.Add(24 * time.Hour)

		rows := sqlmock.NewRows([]string{
			"id", "area_id", "user_id", "start_time", "end_time", "area_name", "user_name",
		}).AddRow(
			shiftID, areaID, userID,
			from.Add(8*time.Hour), from.Add(16*time.Hour),
			"Surgery", "Dr Jess Wong",
		)

		mock.ExpectQuery(`SELECT .* FROM roster_shifts JOIN roster_areas .* LEFT JOIN users .* WHERE roster_shifts\.start_time < \$1 AND roster_shifts\.end_time > \$2 AND roster_shifts\.area_id = \$3`).
			WithArgs(to, from, areaID).
			WillReturnRows(rows)

		query := factory.NewEventQuery(scheduling.EventKindRosterShift, scheduling.SubjectSchedule)
		events, err := query.EventsIn(context.Background(), areaID, from, to)

		assert.NoError(t, err)
		require.Len(t, events, 1)
		event := events[0]
		assert.Equal(t, shiftID, event.ActID)
		assert.Equal(t, scheduling.EventKindRosterShift, event.Kind)
		assert.Equal(t, areaID, event.ScheduleID)
		assert.Equal(t, "Surgery", event.ScheduleName)
		assert.Equal(t, "Dr Jess Wong", event.UserName)
		assert.Equal(t, "ROSTERED", event.Status)
		assert.True(t, event.Times.Start.Equal(from.Add(8*time.Hour)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("later occurrence day holds only the shift materialized for that day", func(t *testing.T) {
		// A weekly shift booked on Mon 2026-03-02 stores one row per
		// occurrence. Querying the following Monday's bucket must match the
		// 2026-03-09 row alone; the lead row fails the interval predicate.
		factory, mock, mockDB := newMockEventQueryFactory(t)
		defer mockDB.Close()

		areaID := uuid.New()
		occurrenceID := uuid.New()
		from := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
		to := from.Add(24 * time.Hour)

		rows := sqlmock.NewRows([]string{
			"id", "area_id", "user_id", "start_time", "end_time", "area_name", "user_name",
		}).AddRow(
			occurrenceID, areaID, nil,
			from.Add(9*time.Hour), from.Add(17*time.Hour),
			"Surgery", nil,
		)

		mock.ExpectQuery(`SELECT .* FROM roster_shifts .* WHERE roster_shifts\.start_time < \$1 AND roster_shifts\.end_time > \$2 AND roster_shifts\.area_id = \$3`).
			WithArgs(to, from, areaID).
			WillReturnRows(rows)

		query := factory.NewEventQuery(scheduling.EventKindRosterShift, scheduling.SubjectSchedule)
		events, err := query.EventsIn(context.Background(), areaID, from, to)

		assert.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, occurrenceID, events[0].ActID)
		assert.Equal(t, "", events[0].UserName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
