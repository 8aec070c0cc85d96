package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// PatientRepository defines the interface for patient persistence
type PatientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Patient, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Patient, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, patient *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
}
