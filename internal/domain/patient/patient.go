package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// Species is the patient's species
type Species string

const (
	SpeciesCanine  Species = "CANINE"
	SpeciesFeline  Species = "FELINE"
	SpeciesEquine  Species = "EQUINE"
	SpeciesAvian   Species = "AVIAN"
	SpeciesReptile Species = "REPTILE"
	SpeciesOther   Species = "OTHER"
)

// IsValid checks if the species is valid
func (s Species) IsValid() bool {
	switch s {
	case SpeciesCanine, SpeciesFeline, SpeciesEquine, SpeciesAvian, SpeciesReptile, SpeciesOther:
		return true
	}
	return false
}

// String returns the string representation of Species
func (s Species) String() string {
	return string(s)
}

// Sex is the patient's sex, including desexed variants
type Sex string

const (
	SexMale         Sex = "MALE"
	SexMaleDesexed  Sex = "MALE_DESEXED"
	SexFemale       Sex = "FEMALE"
	SexFemaleSpayed Sex = "FEMALE_SPAYED"
	SexUnknown      Sex = "UNKNOWN"
)

// IsValid checks if the sex is a valid Sex
func (s Sex) IsValid() bool {
	switch s {
	case SexMale, SexMaleDesexed, SexFemale, SexFemaleSpayed, SexUnknown:
		return true
	}
	return false
}

// String returns the string representation of Sex
func (s Sex) String() string {
	return string(s)
}

// Patient is an animal under the practice's care, owned by a customer
type Patient struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID
	Name        string
	Species     Species
	Breed       string
	Sex         Sex
	DateOfBirth *time.Time
	Colour      string
	Microchip   string
	Deceased    bool
	DeceasedAt  *time.Time
	Notes       string
	Active      bool
}

// NewPatient registers a patient for a customer
func NewPatient(customerID uuid.UUID, name string, species Species) (*Patient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Patient name cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Patient must belong to a customer")
	}
	if !species.IsValid() {
		return nil, shared.NewDomainError("INVALID_PATIENT", "Unknown species: "+species.String())
	}
	return &Patient{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Name:              name,
		Species:           species,
		Sex:               SexUnknown,
		Active:            true,
	}, nil
}

// Update changes the patient's details
func (p *Patient) Update(name, breed, colour string, sex Sex, dateOfBirth *time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PATIENT", "Patient name cannot be empty")
	}
	p.Name = name
	p.Breed = strings.TrimSpace(breed)
	p.Colour = strings.TrimSpace(colour)
	p.Sex = sex
	p.DateOfBirth = dateOfBirth
	p.UpdatedAt = time.Now()
	return nil
}

// TransferTo moves the patient to another owner
func (p *Patient) TransferTo(customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_PATIENT", "Patient must belong to a customer")
	}
	p.CustomerID = customerID
	p.UpdatedAt = time.Now()
	return nil
}

// MarkDeceased records the patient's death. Deceased patients cannot be
// booked or charged.
func (p *Patient) MarkDeceased(at time.Time) error {
	if p.Deceased {
		return shared.ErrPatientDeceased
	}
	p.Deceased = true
	p.DeceasedAt = &at
	p.Active = false
	p.UpdatedAt = time.Now()
	return nil
}

// Age returns the patient's age at the given time
func (p *Patient) Age(at time.Time) *time.Duration {
	if p.DateOfBirth == nil {
		return nil
	}
	age := at.Sub(*p.DateOfBirth)
	return &age
}
