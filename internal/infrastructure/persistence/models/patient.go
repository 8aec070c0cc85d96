package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/patient"
)

// PatientModel is the GORM model for patients
type PatientModel struct {
	AggregateModel
	CustomerID  uuid.UUID  `gorm:"column:customer_id;type:uuid;not null;index"`
	Name        string     `gorm:"column:name;not null"`
	Species     string     `gorm:"column:species;not null"`
	Breed       string     `gorm:"column:breed"`
	Sex         string     `gorm:"column:sex"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth"`
	Colour      string     `gorm:"column:colour"`
	Microchip   string     `gorm:"column:microchip"`
	Deceased    bool       `gorm:"column:deceased;not null;default:false"`
	DeceasedAt  *time.Time `gorm:"column:deceased_at"`
	Notes       string     `gorm:"column:notes;type:text"`
	Active      bool       `gorm:"column:active;not null;default:true;index"`
}

// TableName specifies the table name for PatientModel
func (PatientModel) TableName() string {
	return "patients"
}

// ToDomain converts PatientModel to domain Patient
func (m *PatientModel) ToDomain() *patient.Patient {
	return &patient.Patient{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		Name:              m.Name,
		Species:           patient.Species(m.Species),
		Breed:             m.Breed,
		Sex:               patient.Sex(m.Sex),
		DateOfBirth:       m.DateOfBirth,
		Colour:            m.Colour,
		Microchip:         m.Microchip,
		Deceased:          m.Deceased,
		DeceasedAt:        m.DeceasedAt,
		Notes:             m.Notes,
		Active:            m.Active,
	}
}

// PatientModelFromDomain creates PatientModel from domain Patient
func PatientModelFromDomain(p *patient.Patient) *PatientModel {
	model := &PatientModel{
		CustomerID:  p.CustomerID,
		Name:        p.Name,
		Species:     p.Species.String(),
		Breed:       p.Breed,
		Sex:         p.Sex.String(),
		DateOfBirth: p.DateOfBirth,
		Colour:      p.Colour,
		Microchip:   p.Microchip,
		Deceased:    p.Deceased,
		DeceasedAt:  p.DeceasedAt,
		Notes:       p.Notes,
		Active:      p.Active,
	}
	model.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return model
}
