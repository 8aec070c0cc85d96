package notification

import (
	"bytes"
	"context"
	"text/template"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/notification"
	"github.com/vetdesk/backend/internal/domain/party"
	"github.com/vetdesk/backend/internal/domain/patient"
	"github.com/vetdesk/backend/internal/domain/scheduling"
	"github.com/vetdesk/backend/internal/domain/shared"
)

// DefaultReminderTemplate is the message rendered when no custom template is
// configured.
const DefaultReminderTemplate = "Hi {{.Customer}}, a reminder that {{.Patient}} has an appointment at {{.Schedule}} on {{.Start.Format \"Mon 2 Jan 15:04\"}}. Reply to reschedule."

// DefaultReminderLead is how far ahead of the appointment the reminder fires
const DefaultReminderLead = 24 * time.Hour

const dispatchBatchSize = 100

// reminderData is the template context for one reminder
type reminderData struct {
	Customer string
	Patient  string
	Schedule string
	Start    time.Time
}

// ReminderService schedules and dispatches appointment reminders. It
// subscribes to appointment events: a booking schedules a reminder, a
// reschedule moves it, a cancellation withdraws it. DispatchDue is driven by
// the cron sweep and pushes rendered messages through the transport.
type ReminderService struct {
	reminders notification.ReminderRepository
	customers party.CustomerRepository
	patients  patient.PatientRepository
	transport notification.Transport
	template  *template.Template
	lead      time.Duration
	metrics   DispatchMetrics
	logger    *zap.Logger
}

// DispatchMetrics counts reminder dispatch outcomes.
type DispatchMetrics interface {
	RecordRemindersSent(ctx context.Context, sent int)
	RecordReminderFailure(ctx context.Context)
}

// ReminderServiceOption configures a ReminderService
type ReminderServiceOption func(*ReminderService)

// WithReminderMetrics sets the dispatch counter sink
func WithReminderMetrics(metrics DispatchMetrics) ReminderServiceOption {
	return func(s *ReminderService) {
		s.metrics = metrics
	}
}

// WithReminderLogger sets the service logger
func WithReminderLogger(logger *zap.Logger) ReminderServiceOption {
	return func(s *ReminderService) {
		s.logger = logger
	}
}

// WithReminderLead sets how far ahead of the appointment reminders fire
func WithReminderLead(lead time.Duration) ReminderServiceOption {
	return func(s *ReminderService) {
		s.lead = lead
	}
}

// WithReminderTemplate replaces the message template
func WithReminderTemplate(tmpl *template.Template) ReminderServiceOption {
	return func(s *ReminderService) {
		s.template = tmpl
	}
}

// NewReminderService creates a ReminderService
func NewReminderService(
	reminders notification.ReminderRepository,
	customers party.CustomerRepository,
	patients patient.PatientRepository,
	transport notification.Transport,
	opts ...ReminderServiceOption,
) *ReminderService {
	s := &ReminderService{
		reminders: reminders,
		customers: customers,
		patients:  patients,
		transport: transport,
		template:  template.Must(template.New("reminder").Parse(DefaultReminderTemplate)),
		lead:      DefaultReminderLead,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ shared.EventHandler = (*ReminderService)(nil)

// EventTypes returns the event types the service subscribes to
func (s *ReminderService) EventTypes() []string {
	return []string{
		scheduling.EventTypeScheduleEventSaved,
		scheduling.EventTypeScheduleEventRemoved,
	}
}

// Handle keeps reminders in step with appointment mutations
func (s *ReminderService) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *scheduling.ScheduleEventSavedEvent:
		if e.Event.Kind != scheduling.EventKindAppointment {
			return nil
		}
		if e.Prior != nil {
			if !e.Prior.Times.Start.Equal(e.Event.Times.Start) {
				// Appointment moved; withdraw and reschedule.
				if err := s.cancelForAppointment(ctx, e.Event.ActID); err != nil {
					return err
				}
				return s.scheduleForEvent(ctx, e.Event)
			}
			return nil
		}
		return s.scheduleForEvent(ctx, e.Event)
	case *scheduling.ScheduleEventRemovedEvent:
		if e.Event.Kind != scheduling.EventKindAppointment {
			return nil
		}
		return s.cancelForAppointment(ctx, e.Event.ActID)
	}
	return nil
}

func (s *ReminderService) scheduleForEvent(ctx context.Context, event scheduling.Event) error {
	if event.CustomerID == nil || event.PatientID == nil {
		return nil
	}
	sendAt := event.Times.Start.Add(-s.lead)
	customer, err := s.customers.FindByID(ctx, *event.CustomerID)
	if err != nil {
		return err
	}
	if customer.Phone == "" {
		s.logger.Debug("no phone on file, skipping reminder",
			zap.String("customer", customer.ID.String()))
		return nil
	}
	reminder, err := notification.NewReminder(event.ActID, *event.CustomerID, *event.PatientID, customer.Phone, sendAt)
	if err != nil {
		return err
	}
	reminder.ScheduleName = event.ScheduleName
	if err := s.reminders.Save(ctx, reminder); err != nil {
		return err
	}
	s.logger.Debug("scheduled reminder",
		zap.String("appointment", event.ActID.String()),
		zap.Time("send_at", sendAt))
	return nil
}

func (s *ReminderService) cancelForAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	reminders, err := s.reminders.FindByAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	for _, reminder := range reminders {
		if reminder.Status != notification.ReminderStatusPending &&
			reminder.Status != notification.ReminderStatusFailed {
			continue
		}
		if err := reminder.Cancel(); err != nil {
			return err
		}
		if err := s.reminders.Save(ctx, reminder); err != nil {
			return err
		}
	}
	return nil
}

// DispatchDue sends every pending reminder whose time has come. Failures are
// recorded on the reminder and do not stop the sweep.
func (s *ReminderService) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.reminders.FindDue(ctx, now, dispatchBatchSize)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, reminder := range due {
		if !reminder.IsDue(now) {
			continue
		}
		message, err := s.render(ctx, reminder)
		if err != nil {
			s.fail(ctx, reminder, err)
			continue
		}
		if err := s.transport.Send(ctx, reminder.Recipient, message); err != nil {
			s.fail(ctx, reminder, err)
			continue
		}
		if err := reminder.MarkSent(message); err != nil {
			return sent, err
		}
		if err := s.reminders.Save(ctx, reminder); err != nil {
			return sent, err
		}
		sent++
	}
	if s.metrics != nil {
		s.metrics.RecordRemindersSent(ctx, sent)
	}
	if sent > 0 {
		s.logger.Info("dispatched reminders", zap.Int("sent", sent), zap.Int("due", len(due)))
	}
	return sent, nil
}

func (s *ReminderService) render(ctx context.Context, reminder *notification.Reminder) (string, error) {
	customer, err := s.customers.FindByID(ctx, reminder.CustomerID)
	if err != nil {
		return "", err
	}
	found, err := s.patients.FindByID(ctx, reminder.PatientID)
	if err != nil {
		return "", err
	}
	schedule := reminder.ScheduleName
	if schedule == "" {
		schedule = "the clinic"
	}
	var buf bytes.Buffer
	err = s.template.Execute(&buf, reminderData{
		Customer: customer.Name(),
		Patient:  found.Name,
		Schedule: schedule,
		Start:    reminder.SendAt.Add(s.lead),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *ReminderService) fail(ctx context.Context, reminder *notification.Reminder, cause error) {
	if s.metrics != nil {
		s.metrics.RecordReminderFailure(ctx)
	}
	reminder.MarkFailed(cause.Error())
	if err := s.reminders.Save(ctx, reminder); err != nil {
		s.logger.Error("failed to persist reminder failure",
			zap.String("reminder", reminder.ID.String()), zap.Error(err))
	}
	s.logger.Warn("reminder dispatch failed",
		zap.String("reminder", reminder.ID.String()), zap.Error(cause))
}
