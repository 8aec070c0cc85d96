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

// RosterService is the facade over the rostering caches. It combines two
// independent event caches, one bucketed by roster area and one by user,
// and keeps both consistent by subscribing to post-commit shift events.
type RosterService struct {
	areaCache    *schedulecache.EventCache
	userCache    *schedulecache.EventCache
	overlapQuery scheduling.OverlapQuery
	shiftRepo    scheduling.RosterShiftRepository
	areaRepo     scheduling.RosterAreaRepository
	scheduleRepo scheduling.ScheduleRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// RosterServiceOption configures a RosterService
type RosterServiceOption func(*RosterService)

// WithRosterLogger sets the service logger
func WithRosterLogger(logger *zap.Logger) RosterServiceOption {
	return func(s *RosterService) {
		s.logger = logger
	}
}

// NewRosterService creates a RosterService with its two caches built from
// the given query factory.
func NewRosterService(
	factory scheduling.EventQueryFactory,
	overlapQuery scheduling.OverlapQuery,
	shiftRepo scheduling.RosterShiftRepository,
	areaRepo scheduling.RosterAreaRepository,
	scheduleRepo scheduling.ScheduleRepository,
	publisher shared.EventPublisher,
	cacheOpts []schedulecache.Option,
	opts ...RosterServiceOption,
) *RosterService {
	s := &RosterService{
		areaCache: schedulecache.NewEventCache(
			"roster-by-area",
			scheduling.EventKindRosterShift,
			scheduling.SubjectSchedule,
			factory.NewEventQuery(scheduling.EventKindRosterShift, scheduling.SubjectSchedule),
			cacheOpts...,
		),
		userCache: schedulecache.NewEventCache(
			"roster-by-user",
			scheduling.EventKindRosterShift,
			scheduling.SubjectUser,
			factory.NewEventQuery(scheduling.EventKindRosterShift, scheduling.SubjectUser),
			cacheOpts...,
		),
		overlapQuery: overlapQuery,
		shiftRepo:    shiftRepo,
		areaRepo:     areaRepo,
		scheduleRepo: scheduleRepo,
		publisher:    publisher,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ shared.EventHandler = (*RosterService)(nil)

// GetAreaEvents returns the shifts for an area on one day
func (s *RosterService) GetAreaEvents(ctx context.Context, areaID uuid.UUID, day time.Time) (EventsResponse, error) {
	events, err := s.areaCache.Events(ctx, areaID, day)
	if err != nil {
		return EventsResponse{ModHash: scheduling.NotCached}, err
	}
	return ToEventsResponse(events), nil
}

// GetModHash returns the area bucket's modification hash without querying
func (s *RosterService) GetModHash(areaID uuid.UUID, day time.Time) int64 {
	return s.areaCache.ModHash(areaID, day)
}

// GetUserEvents returns a user's shifts in [from, to). The range is served
// by unioning the user cache's day buckets, deduplicating shifts that span
// midnight and dropping those outside the range.
func (s *RosterService) GetUserEvents(ctx context.Context, userID uuid.UUID, from, to time.Time) (EventsResponse, error) {
	result := EventsResponse{Events: []EventResponse{}}
	seen := make(map[uuid.UUID]bool)
	var hash int64
	for day := scheduling.DayOf(from); day.Before(to); day = day.AddDate(0, 0, 1) {
		events, err := s.userCache.Events(ctx, userID, day)
		if err != nil {
			return EventsResponse{ModHash: scheduling.NotCached}, err
		}
		hash += events.ModHash
		for _, event := range events.Events {
			if seen[event.ActID] || !event.Times.Intersects(from, to) {
				continue
			}
			seen[event.ActID] = true
			result.Events = append(result.Events, ToEventResponse(event))
		}
	}
	result.ModHash = hash
	return result, nil
}

// GetUserModHash returns a combined hash for a user's [from, to) range, or
// NotCached when any constituent day bucket is not resident. Like the
// single-day variant it never queries.
func (s *RosterService) GetUserModHash(userID uuid.UUID, from, to time.Time) int64 {
	var hash int64
	for day := scheduling.DayOf(from); day.Before(to); day = day.AddDate(0, 0, 1) {
		dayHash := s.userCache.ModHash(userID, day)
		if dayHash == scheduling.NotCached {
			return scheduling.NotCached
		}
		hash += dayHash
	}
	return hash
}

// GetSchedules returns the active schedules covered by a roster area.
// Always a fresh query; schedule listings must reflect commits immediately.
func (s *RosterService) GetSchedules(ctx context.Context, areaID uuid.UUID) ([]ScheduleResponse, error) {
	schedules, err := s.scheduleRepo.FindActiveByArea(ctx, areaID)
	if err != nil {
		return nil, err
	}
	result := make([]ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		result = append(result, ToScheduleResponse(&schedules[i]))
	}
	return result, nil
}

// GetOverlappingEvents returns up to limit of the user's shifts that overlap
// any candidate range, or nil when none do. This is a direct query, not a
// cache read: overlap detection needs arbitrary ranges, not single days.
func (s *RosterService) GetOverlappingEvents(ctx context.Context, ranges []scheduling.Times, userID uuid.UUID, limit int) ([]EventResponse, error) {
	if len(ranges) == 0 {
		return nil, nil
	}
	events, err := s.overlapQuery.Overlapping(ctx, scheduling.EventKindRosterShift, userID, ranges, limit)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	result := make([]EventResponse, 0, len(events))
	for _, event := range events {
		result = append(result, ToEventResponse(event))
	}
	return result, nil
}

// CreateShift persists a roster shift. A repeating shift is expanded up to
// RepeatUntil and every occurrence, the lead included, is persisted as a
// one-off row; the rule itself is not stored, so queries see each staffing
// interval exactly once.
func (s *RosterService) CreateShift(ctx context.Context, req CreateShiftRequest) ([]ShiftResponse, error) {
	times, err := scheduling.NewTimes(req.Start, req.End)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_SHIFT", err.Error())
	}
	lead, err := scheduling.NewRosterShift(req.AreaID, times)
	if err != nil {
		return nil, err
	}
	if req.UserID != nil {
		lead.AssignUser(*req.UserID)
	}
	if req.RepeatRule != "" {
		if req.RepeatUntil == nil {
			return nil, shared.NewDomainError("INVALID_REPEAT", "A repeating shift needs repeat_until")
		}
		if err := lead.Repeat(req.RepeatRule); err != nil {
			return nil, err
		}
	}

	shifts := []*scheduling.RosterShift{lead}
	if lead.RepeatRule != "" {
		occurrences, err := lead.Occurrences(times.End, *req.RepeatUntil)
		if err != nil {
			return nil, err
		}
		for _, occ := range occurrences {
			if occ.Start.Equal(times.Start) {
				continue
			}
			next, err := scheduling.NewRosterShift(req.AreaID, occ)
			if err != nil {
				return nil, err
			}
			if req.UserID != nil {
				next.AssignUser(*req.UserID)
			}
			shifts = append(shifts, next)
		}
		lead.ClearRepeat()
	}

	result := make([]ShiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		if err := s.shiftRepo.Save(ctx, shift); err != nil {
			return nil, err
		}
		s.publishSaved(ctx, s.projection(ctx, shift), nil)
		result = append(result, ToShiftResponse(shift))
	}
	return result, nil
}

// UpdateShift reschedules, reassigns or moves a shift, keeping the caches
// informed of both the old and new state.
func (s *RosterService) UpdateShift(ctx context.Context, id uuid.UUID, req UpdateShiftRequest) (*ShiftResponse, error) {
	shift, err := s.shiftRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prior := s.projection(ctx, shift)

	if req.AreaID != nil {
		if err := shift.MoveTo(*req.AreaID); err != nil {
			return nil, err
		}
	}
	if req.UserID != nil {
		shift.AssignUser(*req.UserID)
	}
	if req.Start != nil || req.End != nil {
		start, end := shift.Times.Start, shift.Times.End
		if req.Start != nil {
			start = *req.Start
		}
		if req.End != nil {
			end = *req.End
		}
		times, err := scheduling.NewTimes(start, end)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_SHIFT", err.Error())
		}
		shift.Reschedule(times)
	}

	if err := s.shiftRepo.Save(ctx, shift); err != nil {
		return nil, err
	}
	s.publishSaved(ctx, s.projection(ctx, shift), &prior)
	response := ToShiftResponse(shift)
	return &response, nil
}

// DeleteShift removes a shift and invalidates its cache buckets
func (s *RosterService) DeleteShift(ctx context.Context, id uuid.UUID) error {
	shift, err := s.shiftRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	last := s.projection(ctx, shift)
	if err := s.shiftRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishRemoved(ctx, last)
	return nil
}

// EventTypes returns the event types the service subscribes to
func (s *RosterService) EventTypes() []string {
	return []string{
		scheduling.EventTypeScheduleEventSaved,
		scheduling.EventTypeScheduleEventRemoved,
	}
}

// Handle feeds committed shift mutations into both caches. The area cache is
// updated first; the two caches are independent, so the order matters only
// for determinism, not correctness.
func (s *RosterService) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *scheduling.ScheduleEventSavedEvent:
		s.areaCache.AddEvent(e.Prior, e.Event)
		s.userCache.AddEvent(e.Prior, e.Event)
	case *scheduling.ScheduleEventRemovedEvent:
		s.areaCache.RemoveEvent(e.Event)
		s.userCache.RemoveEvent(e.Event)
	}
	return nil
}

// Destroy releases both caches. Idempotent.
func (s *RosterService) Destroy() {
	s.areaCache.Destroy()
	s.userCache.Destroy()
}

func (s *RosterService) projection(ctx context.Context, shift *scheduling.RosterShift) scheduling.Event {
	areaName := ""
	if area, err := s.areaRepo.FindByID(ctx, shift.AreaID); err == nil {
		areaName = area.Name
	}
	return shift.Projection(areaName, "")
}

func (s *RosterService) publishSaved(ctx context.Context, event scheduling.Event, prior *scheduling.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, scheduling.NewScheduleEventSavedEvent(event, prior)); err != nil {
		s.logger.Warn("failed to publish shift saved event", zap.Error(err))
	}
}

func (s *RosterService) publishRemoved(ctx context.Context, event scheduling.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, scheduling.NewScheduleEventRemovedEvent(event)); err != nil {
		s.logger.Warn("failed to publish shift removed event", zap.Error(err))
	}
}
