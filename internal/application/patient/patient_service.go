package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/party"
	"github.com/vetdesk/backend/internal/domain/patient"
	"github.com/vetdesk/backend/internal/domain/shared"
)

// PatientService manages patient records
type PatientService struct {
	patients  patient.PatientRepository
	customers party.CustomerRepository
	logger    *zap.Logger
}

// PatientServiceOption configures a PatientService
type PatientServiceOption func(*PatientService)

// WithPatientLogger sets the service logger
func WithPatientLogger(logger *zap.Logger) PatientServiceOption {
	return func(s *PatientService) {
		s.logger = logger
	}
}

// NewPatientService creates a PatientService
func NewPatientService(
	patients patient.PatientRepository,
	customers party.CustomerRepository,
	opts ...PatientServiceOption,
) *PatientService {
	s := &PatientService{
		patients:  patients,
		customers: customers,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePatient registers a patient under a customer
func (s *PatientService) CreatePatient(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error) {
	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	created, err := patient.NewPatient(req.CustomerID, req.Name, patient.Species(req.Species))
	if err != nil {
		return nil, err
	}
	created.Breed = req.Breed
	if req.Sex != "" {
		sex := patient.Sex(req.Sex)
		if !sex.IsValid() {
			return nil, shared.NewDomainError("INVALID_PATIENT", "Unknown sex: "+req.Sex)
		}
		created.Sex = sex
	}
	created.DateOfBirth = req.DateOfBirth
	created.Colour = req.Colour
	created.Microchip = req.Microchip
	created.Notes = req.Notes

	if err := s.patients.Save(ctx, created); err != nil {
		return nil, err
	}
	s.logger.Info("created patient",
		zap.String("patient", created.ID.String()),
		zap.String("customer", req.CustomerID.String()))
	resp := ToPatientResponse(created)
	return &resp, nil
}

// GetPatient loads one patient
func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID) (*PatientResponse, error) {
	found, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPatientResponse(found)
	return &resp, nil
}

// ListByCustomer lists a customer's patients
func (s *PatientService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]PatientResponse, error) {
	patients, err := s.patients.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PatientResponse, len(patients))
	for i := range patients {
		responses[i] = ToPatientResponse(&patients[i])
	}
	return responses, nil
}

// UpdatePatient updates a patient record
func (s *PatientService) UpdatePatient(ctx context.Context, id uuid.UUID, req UpdatePatientRequest) (*PatientResponse, error) {
	found, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name, breed, colour := found.Name, found.Breed, found.Colour
	sex, dateOfBirth := found.Sex, found.DateOfBirth
	if req.Name != nil {
		name = *req.Name
	}
	if req.Breed != nil {
		breed = *req.Breed
	}
	if req.Colour != nil {
		colour = *req.Colour
	}
	if req.Sex != nil {
		sex = patient.Sex(*req.Sex)
		if !sex.IsValid() {
			return nil, shared.NewDomainError("INVALID_PATIENT", "Unknown sex: "+*req.Sex)
		}
	}
	if req.DateOfBirth != nil {
		dateOfBirth = req.DateOfBirth
	}
	if err := found.Update(name, breed, colour, sex, dateOfBirth); err != nil {
		return nil, err
	}
	if req.Microchip != nil {
		found.Microchip = *req.Microchip
	}
	if req.Notes != nil {
		found.Notes = *req.Notes
	}

	if err := s.patients.Save(ctx, found); err != nil {
		return nil, err
	}
	resp := ToPatientResponse(found)
	return &resp, nil
}

// TransferPatient moves a patient to another customer
func (s *PatientService) TransferPatient(ctx context.Context, id, customerID uuid.UUID) (*PatientResponse, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}
	found, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := found.TransferTo(customerID); err != nil {
		return nil, err
	}
	if err := s.patients.Save(ctx, found); err != nil {
		return nil, err
	}
	s.logger.Info("transferred patient",
		zap.String("patient", id.String()),
		zap.String("customer", customerID.String()))
	resp := ToPatientResponse(found)
	return &resp, nil
}

// MarkDeceased records a patient's death
func (s *PatientService) MarkDeceased(ctx context.Context, id uuid.UUID, at time.Time) (*PatientResponse, error) {
	found, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := found.MarkDeceased(at); err != nil {
		return nil, err
	}
	if err := s.patients.Save(ctx, found); err != nil {
		return nil, err
	}
	resp := ToPatientResponse(found)
	return &resp, nil
}
