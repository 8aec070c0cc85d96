package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/patient"
)

// CreatePatientRequest registers a patient under a customer
type CreatePatientRequest struct {
	CustomerID  uuid.UUID  `json:"customer_id" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Species     string     `json:"species" binding:"required"`
	Breed       string     `json:"breed"`
	Sex         string     `json:"sex"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Colour      string     `json:"colour"`
	Microchip   string     `json:"microchip"`
	Notes       string     `json:"notes"`
}

// UpdatePatientRequest updates a patient record
type UpdatePatientRequest struct {
	Name        *string    `json:"name"`
	Breed       *string    `json:"breed"`
	Sex         *string    `json:"sex"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Colour      *string    `json:"colour"`
	Microchip   *string    `json:"microchip"`
	Notes       *string    `json:"notes"`
}

// PatientResponse is a patient in API responses
type PatientResponse struct {
	ID          uuid.UUID  `json:"id"`
	CustomerID  uuid.UUID  `json:"customer_id"`
	Name        string     `json:"name"`
	Species     string     `json:"species"`
	Breed       string     `json:"breed,omitempty"`
	Sex         string     `json:"sex"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Colour      string     `json:"colour,omitempty"`
	Microchip   string     `json:"microchip,omitempty"`
	Deceased    bool       `json:"deceased"`
	DeceasedAt  *time.Time `json:"deceased_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToPatientResponse converts a patient to its response form
func ToPatientResponse(found *patient.Patient) PatientResponse {
	return PatientResponse{
		ID:          found.ID,
		CustomerID:  found.CustomerID,
		Name:        found.Name,
		Species:     found.Species.String(),
		Breed:       found.Breed,
		Sex:         found.Sex.String(),
		DateOfBirth: found.DateOfBirth,
		Colour:      found.Colour,
		Microchip:   found.Microchip,
		Deceased:    found.Deceased,
		DeceasedAt:  found.DeceasedAt,
		Notes:       found.Notes,
		Active:      found.Active,
		CreatedAt:   found.CreatedAt,
		UpdatedAt:   found.UpdatedAt,
	}
}
