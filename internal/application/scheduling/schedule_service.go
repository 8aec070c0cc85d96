package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/scheduling"
	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/infrastructure/schedulecache"
)

// ScheduleService is the facade over the appointment book. It shares the
// roster's cache machinery: one event cache bucketed by schedule, fed by
// post-commit appointment events.
type ScheduleService struct {
	cache        *schedulecache.EventCache
	appointments scheduling.AppointmentRepository
	scheduleRepo scheduling.ScheduleRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// ScheduleServiceOption configures a ScheduleService
type ScheduleServiceOption func(*ScheduleService)

// WithScheduleLogger sets the service logger
func WithScheduleLogger(logger *zap.Logger) ScheduleServiceOption {
	return func(s *ScheduleService) {
		s.logger = logger
	}
}

// NewScheduleService creates a ScheduleService
func NewScheduleService(
	factory scheduling.EventQueryFactory,
	appointments scheduling.AppointmentRepository,
	scheduleRepo scheduling.ScheduleRepository,
	publisher shared.EventPublisher,
	cacheOpts []schedulecache.Option,
	opts ...ScheduleServiceOption,
) *ScheduleService {
	s := &ScheduleService{
		cache: schedulecache.NewEventCache(
			"appointments-by-schedule",
			scheduling.EventKindAppointment,
			scheduling.SubjectSchedule,
			factory.NewEventQuery(scheduling.EventKindAppointment, scheduling.SubjectSchedule),
			cacheOpts...,
		),
		appointments: appointments,
		scheduleRepo: scheduleRepo,
		publisher:    publisher,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ shared.EventHandler = (*ScheduleService)(nil)

// GetScheduleEvents returns the appointments on a schedule for one day
func (s *ScheduleService) GetScheduleEvents(ctx context.Context, scheduleID uuid.UUID, day time.Time) (EventsResponse, error) {
	events, err := s.cache.Events(ctx, scheduleID, day)
	if err != nil {
		return EventsResponse{ModHash: scheduling.NotCached}, err
	}
	return ToEventsResponse(events), nil
}

// GetModHash returns the schedule bucket's modification hash without querying
func (s *ScheduleService) GetModHash(scheduleID uuid.UUID, day time.Time) int64 {
	return s.cache.ModHash(scheduleID, day)
}

// CreateAppointment books an appointment on a schedule
func (s *ScheduleService) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*AppointmentResponse, error) {
	if _, err := s.scheduleRepo.FindByID(ctx, req.ScheduleID); err != nil {
		return nil, err
	}
	times, err := scheduling.NewTimes(req.Start, req.End)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_APPOINTMENT", err.Error())
	}
	appointment, err := scheduling.NewAppointment(req.ScheduleID, req.CustomerID, req.PatientID, times, req.Reason)
	if err != nil {
		return nil, err
	}
	if req.UserID != nil {
		if err := appointment.AssignClinician(*req.UserID); err != nil {
			return nil, err
		}
	}
	if err := s.appointments.Save(ctx, appointment); err != nil {
		return nil, err
	}
	s.publishSaved(ctx, s.projection(ctx, appointment), nil)
	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// Reschedule moves an appointment, possibly to another schedule
func (s *ScheduleService) Reschedule(ctx context.Context, id uuid.UUID, req RescheduleAppointmentRequest) (*AppointmentResponse, error) {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prior := s.projection(ctx, appointment)

	times, err := scheduling.NewTimes(req.Start, req.End)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_APPOINTMENT", err.Error())
	}
	if err := appointment.Reschedule(req.ScheduleID, times); err != nil {
		return nil, err
	}
	if err := s.appointments.Save(ctx, appointment); err != nil {
		return nil, err
	}
	s.publishSaved(ctx, s.projection(ctx, appointment), &prior)
	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// Transition moves an appointment through its workflow (confirm, check in,
// complete, cancel, no-show)
func (s *ScheduleService) Transition(ctx context.Context, id uuid.UUID, status scheduling.AppointmentStatus) (*AppointmentResponse, error) {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prior := s.projection(ctx, appointment)
	if err := appointment.Transition(status); err != nil {
		return nil, err
	}
	if err := s.appointments.Save(ctx, appointment); err != nil {
		return nil, err
	}
	s.publishSaved(ctx, s.projection(ctx, appointment), &prior)
	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// DeleteAppointment removes an appointment and invalidates its buckets
func (s *ScheduleService) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	last := s.projection(ctx, appointment)
	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}
	s.publishRemoved(ctx, last)
	return nil
}

// EventTypes returns the event types the service subscribes to
func (s *ScheduleService) EventTypes() []string {
	return []string{
		scheduling.EventTypeScheduleEventSaved,
		scheduling.EventTypeScheduleEventRemoved,
	}
}

// Handle feeds committed appointment mutations into the schedule cache
func (s *ScheduleService) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *scheduling.ScheduleEventSavedEvent:
		s.cache.AddEvent(e.Prior, e.Event)
	case *scheduling.ScheduleEventRemovedEvent:
		s.cache.RemoveEvent(e.Event)
	}
	return nil
}

// Destroy releases the cache. Idempotent.
func (s *ScheduleService) Destroy() {
	s.cache.Destroy()
}

func (s *ScheduleService) projection(ctx context.Context, appointment *scheduling.Appointment) scheduling.Event {
	scheduleName := ""
	if schedule, err := s.scheduleRepo.FindByID(ctx, appointment.ScheduleID); err == nil {
		scheduleName = schedule.Name
	}
	return appointment.Projection(scheduleName, "", "", "")
}

func (s *ScheduleService) publishSaved(ctx context.Context, event scheduling.Event, prior *scheduling.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, scheduling.NewScheduleEventSavedEvent(event, prior)); err != nil {
		s.logger.Warn("failed to publish appointment saved event", zap.Error(err))
	}
}

func (s *ScheduleService) publishRemoved(ctx context.Context, event scheduling.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, scheduling.NewScheduleEventRemovedEvent(event)); err != nil {
		s.logger.Warn("failed to publish appointment removed event", zap.Error(err))
	}
}
