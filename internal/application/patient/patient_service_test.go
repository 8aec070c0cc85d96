package patient

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/backend/internal/domain/party"
	"github.com/vetdesk/backend/internal/domain/patient"
	"github.com/vetdesk/backend/internal/domain/shared"
)

type patientStore struct {
	mu        sync.Mutex
	patients  map[uuid.UUID]patient.Patient
	customers map[uuid.UUID]party.Customer
}

func newPatientStore() *patientStore {
	return &patientStore{
		patients:  make(map[uuid.UUID]patient.Patient),
		customers: make(map[uuid.UUID]party.Customer),
	}
}

func (s *patientStore) FindByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found, ok := s.patients[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := found
	return &copied, nil
}

func (s *patientStore) FindByCustomer(_ context.Context, customerID uuid.UUID, _ shared.Filter) ([]patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []patient.Patient
	for _, found := range s.patients {
		if found.CustomerID == customerID {
			result = append(result, found)
		}
	}
	return result, nil
}

func (s *patientStore) FindAll(_ context.Context, _ shared.Filter) ([]patient.Patient, error) {
	return nil, nil
}

func (s *patientStore) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return 0, nil
}

func (s *patientStore) Save(_ context.Context, found *patient.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[found.ID] = *found
	return nil
}

func (s *patientStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.patients, id)
	return nil
}

type ownerRepo struct{ s *patientStore }

func (r ownerRepo) FindByID(_ context.Context, id uuid.UUID) (*party.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	customer, ok := r.s.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := customer
	return &copied, nil
}

func (r ownerRepo) FindAll(_ context.Context, _ shared.Filter) ([]party.Customer, error) {
	return nil, nil
}

func (r ownerRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return 0, nil
}

func (r ownerRepo) Save(_ context.Context, customer *party.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r ownerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.customers, id)
	return nil
}

func newTestPatientService(t *testing.T) (*PatientService, uuid.UUID) {
	t.Helper()
	store := newPatientStore()
	service := NewPatientService(store, ownerRepo{store})
	customer, err := party.NewCustomer("Ken", "Osei")
	require.NoError(t, err)
	require.NoError(t, ownerRepo{store}.Save(context.Background(), customer))
	return service, customer.ID
}

func TestPatientService_CreateAndList(t *testing.T) {
	service, customerID := newTestPatientService(t)

	resp, err := service.CreatePatient(context.Background(), CreatePatientRequest{
		CustomerID: customerID,
		Name:       "Bella",
		Species:    "CANINE",
		Breed:      "Kelpie",
		Sex:        "FEMALE_SPAYED",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bella", resp.Name)
	assert.Equal(t, "FEMALE_SPAYED", resp.Sex)

	listed, err := service.ListByCustomer(context.Background(), customerID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = service.CreatePatient(context.Background(), CreatePatientRequest{
		CustomerID: uuid.New(),
		Name:       "Ghost",
		Species:    "FELINE",
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = service.CreatePatient(context.Background(), CreatePatientRequest{
		CustomerID: customerID,
		Name:       "Rex",
		Species:    "DRAGON",
	})
	assert.Error(t, err)
}

func TestPatientService_Update(t *testing.T) {
	service, customerID := newTestPatientService(t)
	resp, err := service.CreatePatient(context.Background(), CreatePatientRequest{
		CustomerID: customerID,
		Name:       "Bella",
		Species:    "CANINE",
	})
	require.NoError(t, err)

	breed := "Border Collie"
	chip := "956000012345678"
	updated, err := service.UpdatePatient(context.Background(), resp.ID, UpdatePatientRequest{
		Breed:     &breed,
		Microchip: &chip,
	})
	require.NoError(t, err)
	assert.Equal(t, "Border Collie", updated.Breed)
	assert.Equal(t, chip, updated.Microchip)
	assert.Equal(t, "Bella", updated.Name)

	badSex := "NEITHER"
	_, err = service.UpdatePatient(context.Background(), resp.ID, UpdatePatientRequest{Sex: &badSex})
	assert.Error(t, err)
}

func TestPatientService_TransferAndDecease(t *testing.T) {
	service, customerID := newTestPatientService(t)
	resp, err := service.CreatePatient(context.Background(), CreatePatientRequest{
		CustomerID: customerID,
		Name:       "Bella",
		Species:    "CANINE",
	})
	require.NoError(t, err)

	_, err = service.TransferPatient(context.Background(), resp.ID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	deceased, err := service.MarkDeceased(context.Background(), resp.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, deceased.Deceased)

	_, err = service.MarkDeceased(context.Background(), resp.ID, time.Now())
	assert.ErrorIs(t, err, shared.ErrPatientDeceased)
}
