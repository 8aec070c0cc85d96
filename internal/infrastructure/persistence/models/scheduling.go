package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/scheduling"
)

// RosterAreaModel is the GORM model for roster areas
type RosterAreaModel struct {
	AggregateModel
	Name        string `gorm:"column:name;not null"`
	Description string `gorm:"column:description"`
	Active      bool   `gorm:"column:active;not null;default:true;index"`
}

// TableName specifies the table name for RosterAreaModel
func (RosterAreaModel) TableName() string {
	return "roster_areas"
}

// ToDomain converts RosterAreaModel to domain RosterArea
func (m *RosterAreaModel) ToDomain() *scheduling.RosterArea {
	return &scheduling.RosterArea{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Active:            m.Active,
	}
}

// RosterAreaModelFromDomain creates RosterAreaModel from domain RosterArea
func RosterAreaModelFromDomain(a *scheduling.RosterArea) *RosterAreaModel {
	model := &RosterAreaModel{
		Name:        a.Name,
		Description: a.Description,
		Active:      a.Active,
	}
	model.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return model
}

// ScheduleModel is the GORM model for appointment schedules. Duration
// columns are stored as nanosecond counts in bigint columns.
type ScheduleModel struct {
	AggregateModel
	Name       string        `gorm:"column:name;not null"`
	AreaID     *uuid.UUID    `gorm:"column:area_id;type:uuid;index"`
	SlotSize   time.Duration `gorm:"column:slot_size;not null"`
	StartOfDay time.Duration `gorm:"column:start_of_day;not null"`
	EndOfDay   time.Duration `gorm:"column:end_of_day;not null"`
	Active     bool          `gorm:"column:active;not null;default:true;index"`
}

// TableName specifies the table name for ScheduleModel
func (ScheduleModel) TableName() string {
	return "schedules"
}

// ToDomain converts ScheduleModel to domain Schedule
func (m *ScheduleModel) ToDomain() *scheduling.Schedule {
	return &scheduling.Schedule{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		AreaID:            m.AreaID,
		SlotSize:          m.SlotSize,
		StartOfDay:        m.StartOfDay,
		EndOfDay:          m.EndOfDay,
		Active:            m.Active,
	}
}

// ScheduleModelFromDomain creates ScheduleModel from domain Schedule
func ScheduleModelFromDomain(s *scheduling.Schedule) *ScheduleModel {
	model := &ScheduleModel{
		Name:       s.Name,
		AreaID:     s.AreaID,
		SlotSize:   s.SlotSize,
		StartOfDay: s.StartOfDay,
		EndOfDay:   s.EndOfDay,
		Active:     s.Active,
	}
	model.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return model
}

// RosterShiftModel is the GORM model for roster shifts
type RosterShiftModel struct {
	AggregateModel
	AreaID     uuid.UUID  `gorm:"column:area_id;type:uuid;not null;index"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	StartTime  time.Time  `gorm:"column:start_time;not null;index"`
	EndTime    time.Time  `gorm:"column:end_time;not null"`
	RepeatRule string     `gorm:"column:repeat_rule"`
}

// TableName specifies the table name for RosterShiftModel
func (RosterShiftModel) TableName() string {
	return "roster_shifts"
}

// ToDomain converts RosterShiftModel to domain RosterShift
func (m *RosterShiftModel) ToDomain() *scheduling.RosterShift {
	return &scheduling.RosterShift{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AreaID:            m.AreaID,
		UserID:            m.UserID,
		Times:             scheduling.Times{Start: m.StartTime, End: m.EndTime},
		RepeatRule:        m.RepeatRule,
	}
}

// RosterShiftModelFromDomain creates RosterShiftModel from domain RosterShift
func RosterShiftModelFromDomain(s *scheduling.RosterShift) *RosterShiftModel {
	model := &RosterShiftModel{
		AreaID:     s.AreaID,
		UserID:     s.UserID,
		StartTime:  s.Times.Start,
		EndTime:    s.Times.End,
		RepeatRule: s.RepeatRule,
	}
	model.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return model
}

// AppointmentModel is the GORM model for appointments
type AppointmentModel struct {
	AggregateModel
	ScheduleID uuid.UUID  `gorm:"column:schedule_id;type:uuid;not null;index"`
	CustomerID uuid.UUID  `gorm:"column:customer_id;type:uuid;not null;index"`
	PatientID  uuid.UUID  `gorm:"column:patient_id;type:uuid;not null;index"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	StartTime  time.Time  `gorm:"column:start_time;not null;index"`
	EndTime    time.Time  `gorm:"column:end_time;not null"`
	Status     string     `gorm:"column:status;not null;index"`
	Reason     string     `gorm:"column:reason"`
	Notes      string     `gorm:"column:notes;type:text"`
}

// TableName specifies the table name for AppointmentModel
func (AppointmentModel) TableName() string {
	return "appointments"
}

// ToDomain converts AppointmentModel to domain Appointment
func (m *AppointmentModel) ToDomain() *scheduling.Appointment {
	return &scheduling.Appointment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ScheduleID:        m.ScheduleID,
		CustomerID:        m.CustomerID,
		PatientID:         m.PatientID,
		UserID:            m.UserID,
		Times:             scheduling.Times{Start: m.StartTime, End: m.EndTime},
		Status:            scheduling.AppointmentStatus(m.Status),
		Reason:            m.Reason,
		Notes:             m.Notes,
	}
}

// AppointmentModelFromDomain creates AppointmentModel from domain Appointment
func AppointmentModelFromDomain(a *scheduling.Appointment) *AppointmentModel {
	model := &AppointmentModel{
		ScheduleID: a.ScheduleID,
		CustomerID: a.CustomerID,
		PatientID:  a.PatientID,
		UserID:     a.UserID,
		StartTime:  a.Times.Start,
		EndTime:    a.Times.End,
		Status:     a.Status.String(),
		Reason:     a.Reason,
		Notes:      a.Notes,
	}
	model.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return model
}
