package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/backend/internal/domain/notification"
	"github.com/vetdesk/backend/internal/domain/party"
	"github.com/vetdesk/backend/internal/domain/patient"
	"github.com/vetdesk/backend/internal/domain/scheduling"
	"github.com/vetdesk/backend/internal/domain/shared"
)

// reminderFixture is an in-memory persistence layer for reminders,
// customers and patients.
type reminderFixture struct {
	mu        sync.Mutex
	reminders map[uuid.UUID]notification.Reminder
	customers map[uuid.UUID]party.Customer
	patients  map[uuid.UUID]patient.Patient
}

func newReminderFixture() *reminderFixture {
	return &reminderFixture{
		reminders: make(map[uuid.UUID]notification.Reminder),
		customers: make(map[uuid.UUID]party.Customer),
		patients:  make(map[uuid.UUID]patient.Patient),
	}
}

func (f *reminderFixture) FindByID(_ context.Context, id uuid.UUID) (*notification.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reminder, ok := f.reminders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := reminder
	return &copied, nil
}

func (f *reminderFixture) FindDue(_ context.Context, now time.Time, limit int) ([]*notification.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []*notification.Reminder
	for _, reminder := range f.reminders {
		if reminder.IsDue(now) && len(due) < limit {
			copied := reminder
			due = append(due, &copied)
		}
	}
	return due, nil
}

func (f *reminderFixture) FindByAppointment(_ context.Context, appointmentID uuid.UUID) ([]*notification.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*notification.Reminder
	for _, reminder := range f.reminders {
		if reminder.AppointmentID == appointmentID {
			copied := reminder
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *reminderFixture) Save(_ context.Context, reminder *notification.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders[reminder.ID] = *reminder
	return nil
}

func (f *reminderFixture) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reminders, id)
	return nil
}

type reminderCustomerRepo struct{ f *reminderFixture }

func (r reminderCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*party.Customer, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	customer, ok := r.f.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := customer
	return &copied, nil
}

func (r reminderCustomerRepo) FindAll(_ context.Context, _ shared.Filter) ([]party.Customer, error) {
	return nil, nil
}

func (r reminderCustomerRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return 0, nil
}

func (r reminderCustomerRepo) Save(_ context.Context, customer *party.Customer) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.customers[customer.ID] = *customer
	return nil
}

func (r reminderCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.customers, id)
	return nil
}

type reminderPatientRepo struct{ f *reminderFixture }

func (r reminderPatientRepo) FindByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	found, ok := r.f.patients[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := found
	return &copied, nil
}

func (r reminderPatientRepo) FindByCustomer(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]patient.Patient, error) {
	return nil, nil
}

func (r reminderPatientRepo) FindAll(_ context.Context, _ shared.Filter) ([]patient.Patient, error) {
	return nil, nil
}

func (r reminderPatientRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return 0, nil
}

func (r reminderPatientRepo) Save(_ context.Context, found *patient.Patient) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.patients[found.ID] = *found
	return nil
}

func (r reminderPatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.patients, id)
	return nil
}

// recordingTransport captures sent messages and can be set to fail
type recordingTransport struct {
	mu       sync.Mutex
	sent     []string
	failWith error
}

func (t *recordingTransport) Send(_ context.Context, _, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWith != nil {
		return t.failWith
	}
	t.sent = append(t.sent, message)
	return nil
}

type reminderHarness struct {
	fixture   *reminderFixture
	transport *recordingTransport
	service   *ReminderService
}

func newReminderHarness(t *testing.T) *reminderHarness {
	t.Helper()
	f := newReminderFixture()
	transport := &recordingTransport{}
	service := NewReminderService(f, reminderCustomerRepo{f}, reminderPatientRepo{f}, transport)
	return &reminderHarness{fixture: f, transport: transport, service: service}
}

func (h *reminderHarness) newBooking(t *testing.T, start time.Time) scheduling.Event {
	t.Helper()
	ctx := context.Background()
	customer, err := party.NewCustomer("Alice", "Tran")
	require.NoError(t, err)
	customer.SetContact("0400111222", "alice@example.com")
	require.NoError(t, reminderCustomerRepo{h.fixture}.Save(ctx, customer))
	pet, err := patient.NewPatient(customer.ID, "Milo", patient.SpeciesCanine)
	require.NoError(t, err)
	require.NoError(t, reminderPatientRepo{h.fixture}.Save(ctx, pet))

	customerID, patientID := customer.ID, pet.ID
	return scheduling.Event{
		ActID:        uuid.New(),
		Kind:         scheduling.EventKindAppointment,
		ScheduleName: "Consult 1",
		CustomerID:   &customerID,
		PatientID:    &patientID,
		Times:        scheduling.Times{Start: start, End: start.Add(15 * time.Minute)},
	}
}

func (h *reminderHarness) pending(t *testing.T) []*notification.Reminder {
	t.Helper()
	due, err := h.fixture.FindDue(context.Background(), time.Now().Add(1000*time.Hour), 100)
	require.NoError(t, err)
	return due
}

func TestReminderService_SchedulesOnBooking(t *testing.T) {
	h := newReminderHarness(t)
	start := time.Now().Add(48 * time.Hour)
	event := h.newBooking(t, start)

	err := h.service.Handle(context.Background(), scheduling.NewScheduleEventSavedEvent(event, nil))
	require.NoError(t, err)

	pending := h.pending(t)
	require.Len(t, pending, 1)
	assert.Equal(t, event.ActID, pending[0].AppointmentID)
	assert.Equal(t, "0400111222", pending[0].Recipient)
	assert.True(t, pending[0].SendAt.Equal(start.Add(-DefaultReminderLead)))
}

func TestReminderService_RescheduleMovesReminder(t *testing.T) {
	h := newReminderHarness(t)
	start := time.Now().Add(48 * time.Hour)
	event := h.newBooking(t, start)
	ctx := context.Background()

	require.NoError(t, h.service.Handle(ctx, scheduling.NewScheduleEventSavedEvent(event, nil)))

	moved := event
	moved.Times = scheduling.Times{Start: start.Add(24 * time.Hour), End: start.Add(24*time.Hour + 15*time.Minute)}
	prior := event
	require.NoError(t, h.service.Handle(ctx, scheduling.NewScheduleEventSavedEvent(moved, &prior)))

	pending := h.pending(t)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].SendAt.Equal(moved.Times.Start.Add(-DefaultReminderLead)))
}

func TestReminderService_CancellationWithdrawsReminder(t *testing.T) {
	h := newReminderHarness(t)
	event := h.newBooking(t, time.Now().Add(48*time.Hour))
	ctx := context.Background()

	require.NoError(t, h.service.Handle(ctx, scheduling.NewScheduleEventSavedEvent(event, nil)))
	require.NoError(t, h.service.Handle(ctx, scheduling.NewScheduleEventRemovedEvent(event)))

	assert.Empty(t, h.pending(t))
}

func TestReminderService_DispatchDue(t *testing.T) {
	h := newReminderHarness(t)
	start := time.Now().Add(12 * time.Hour)
	event := h.newBooking(t, start)
	ctx := context.Background()

	require.NoError(t, h.service.Handle(ctx, scheduling.NewScheduleEventSavedEvent(event, nil)))

	// Not yet due.
	sent, err := h.service.DispatchDue(ctx, start.Add(-36*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, sent)

	sent, err = h.service.DispatchDue(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, sent)

	h.transport.mu.Lock()
	require.Len(t, h.transport.sent, 1)
	message := h.transport.sent[0]
	h.transport.mu.Unlock()
	assert.Contains(t, message, "Alice Tran")
	assert.Contains(t, message, "Milo")
	assert.Contains(t, message, "Consult 1")

	// The sweep is idempotent once a reminder is sent.
	sent, err = h.service.DispatchDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestReminderService_TransportFailureRecorded(t *testing.T) {
	h := newReminderHarness(t)
	event := h.newBooking(t, time.Now().Add(12*time.Hour))
	ctx := context.Background()

	require.NoError(t, h.service.Handle(ctx, scheduling.NewScheduleEventSavedEvent(event, nil)))
	h.transport.failWith = errors.New("gateway timeout")

	sent, err := h.service.DispatchDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, sent)

	reminders, err := h.fixture.FindByAppointment(ctx, event.ActID)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, notification.ReminderStatusFailed, reminders[0].Status)
	assert.Equal(t, "gateway timeout", reminders[0].LastError)

	// Retry returns it to the queue and the next sweep succeeds.
	h.transport.failWith = nil
	require.NoError(t, reminders[0].Retry())
	require.NoError(t, h.fixture.Save(ctx, reminders[0]))
	sent, err = h.service.DispatchDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}
