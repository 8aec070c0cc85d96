package scheduling

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// RosterArea is a staffing area (consult rooms, surgery, reception) that
// roster shifts are assigned to. Areas group the appointment schedules
// they cover.
type RosterArea struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	Active      bool
}

// NewRosterArea creates a new roster area
func NewRosterArea(name string) (*RosterArea, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_AREA", "Area name cannot be empty")
	}
	return &RosterArea{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Active:            true,
	}, nil
}

// Rename changes the area name
func (a *RosterArea) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_AREA", "Area name cannot be empty")
	}
	a.Name = name
	a.UpdatedAt = time.Now()
	return nil
}

// Deactivate retires the area. Existing shifts keep their reference.
func (a *RosterArea) Deactivate() {
	a.Active = false
	a.UpdatedAt = time.Now()
}

// Schedule is an appointment book (a consult room or a vet's diary).
// A schedule may be linked to the roster area that staffs it.
type Schedule struct {
	shared.BaseAggregateRoot
	Name       string
	AreaID     *uuid.UUID
	SlotSize   time.Duration
	StartOfDay time.Duration // offset from midnight the book opens
	EndOfDay   time.Duration // offset from midnight the book closes
	Active     bool
}

// NewSchedule creates a new appointment schedule
func NewSchedule(name string, slotSize time.Duration) (*Schedule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Schedule name cannot be empty")
	}
	if slotSize <= 0 {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Slot size must be positive")
	}
	return &Schedule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SlotSize:          slotSize,
		StartOfDay:        8 * time.Hour,
		EndOfDay:          18 * time.Hour,
		Active:            true,
	}, nil
}

// AssignArea links the schedule to a roster area
func (s *Schedule) AssignArea(areaID uuid.UUID) {
	s.AreaID = &areaID
	s.UpdatedAt = time.Now()
}

// ClearArea removes the roster area link
func (s *Schedule) ClearArea() {
	s.AreaID = nil
	s.UpdatedAt = time.Now()
}

// Deactivate retires the schedule so it no longer appears in area listings
func (s *Schedule) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now()
}
