package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// RosterShift is a staffing assignment: an area, an interval, and optionally
// the user rostered on. Shifts may repeat on an RFC 5545 recurrence rule;
// occurrences are expanded into separate persisted shifts when saved.
type RosterShift struct {
	shared.BaseAggregateRoot
	AreaID     uuid.UUID
	UserID     *uuid.UUID
	Times      Times
	RepeatRule string // RFC 5545 RRULE body; cleared once occurrences are materialized
}

// NewRosterShift creates a one-off roster shift
func NewRosterShift(areaID uuid.UUID, times Times) (*RosterShift, error) {
	if areaID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHIFT", "Shift must reference a roster area")
	}
	return &RosterShift{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AreaID:            areaID,
		Times:             times,
	}, nil
}

// AssignUser rosters a user onto the shift
func (s *RosterShift) AssignUser(userID uuid.UUID) {
	s.UserID = &userID
	s.UpdatedAt = time.Now()
}

// ClearUser leaves the shift open (unassigned)
func (s *RosterShift) ClearUser() {
	s.UserID = nil
	s.UpdatedAt = time.Now()
}

// MoveTo changes the shift's area
func (s *RosterShift) MoveTo(areaID uuid.UUID) error {
	if areaID == uuid.Nil {
		return shared.NewDomainError("INVALID_SHIFT", "Shift must reference a roster area")
	}
	s.AreaID = areaID
	s.UpdatedAt = time.Now()
	return nil
}

// Reschedule changes the shift's interval
func (s *RosterShift) Reschedule(times Times) {
	s.Times = times
	s.UpdatedAt = time.Now()
}

// Repeat sets the recurrence rule. The rule is validated eagerly so a bad
// expression fails at save time rather than at expansion time.
func (s *RosterShift) Repeat(rule string) error {
	if rule != "" {
		if _, err := rrule.StrToROption(rule); err != nil {
			return shared.NewDomainError("INVALID_REPEAT", "Invalid recurrence rule: "+err.Error())
		}
	}
	s.RepeatRule = rule
	s.UpdatedAt = time.Now()
	return nil
}

// ClearRepeat drops the recurrence rule. Called once the rule's occurrences
// have been materialized as stand-alone shifts, so each persisted row
// represents exactly one staffing interval.
func (s *RosterShift) ClearRepeat() {
	s.RepeatRule = ""
	s.UpdatedAt = time.Now()
}

// Occurrences expands the shift's recurrence rule into the intervals falling
// within [from, until). A one-off shift yields its own interval when it
// intersects the range. The shift's own interval is always the first
// occurrence of a repeating shift.
func (s *RosterShift) Occurrences(from, until time.Time) ([]Times, error) {
	if s.RepeatRule == "" {
		if s.Times.Intersects(from, until) {
			return []Times{s.Times}, nil
		}
		return nil, nil
	}
	opt, err := rrule.StrToROption(s.RepeatRule)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_REPEAT", "Invalid recurrence rule: "+err.Error())
	}
	opt.Dtstart = s.Times.Start
	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_REPEAT", "Invalid recurrence rule: "+err.Error())
	}
	duration := s.Times.Duration()
	// Widen the window so occurrences that start before `from` but run into
	// the range are still reported.
	starts := rule.Between(from.Add(-duration), until, true)
	var result []Times
	for _, start := range starts {
		occ := Times{Start: start, End: start.Add(duration)}
		if occ.Intersects(from, until) {
			result = append(result, occ)
		}
	}
	return result, nil
}

// Projection builds the cache Event for this shift using the given display names
func (s *RosterShift) Projection(areaName, userName string) Event {
	return Event{
		ActID:        s.ID,
		Kind:         EventKindRosterShift,
		ScheduleID:   s.AreaID,
		ScheduleName: areaName,
		UserID:       s.UserID,
		UserName:     userName,
		Status:       "ROSTERED",
		Times:        s.Times,
	}
}
