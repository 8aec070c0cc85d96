package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/patient"
	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/infrastructure/persistence/models"
)

// GormPatientRepository implements PatientRepository using GORM
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// FindByID finds a patient by its ID
func (r *GormPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var model models.PatientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer finds a customer's patients matching the filter
func (r *GormPatientRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]patient.Patient, error) {
	var patientModels []models.PatientModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PatientModel{}).Where("customer_id = ?", customerID),
		filter,
	)

	if err := query.Find(&patientModels).Error; err != nil {
		return nil, err
	}
	return toDomainPatients(patientModels), nil
}

// FindAll finds all patients matching the filter
func (r *GormPatientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]patient.Patient, error) {
	var patientModels []models.PatientModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PatientModel{}), filter)

	if err := query.Find(&patientModels).Error; err != nil {
		return nil, err
	}
	return toDomainPatients(patientModels), nil
}

// Count counts patients matching the filter
func (r *GormPatientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.PatientModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a patient
func (r *GormPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	model := models.PatientModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a patient
func (r *GormPatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PatientModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainPatients(patientModels []models.PatientModel) []patient.Patient {
	patients := make([]patient.Patient, len(patientModels))
	for i, model := range patientModels {
		patients[i] = *model.ToDomain()
	}
	return patients
}

// applyFilter applies filter options to the query
func (r *GormPatientRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PatientSortFields, "name")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPatientRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR breed ILIKE ? OR microchip ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "species":
			query = query.Where("species = ?", value)
		case "sex":
			query = query.Where("sex = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		case "deceased":
			query = query.Where("deceased = ?", value)
		}
	}

	return query
}

// Ensure GormPatientRepository implements PatientRepository
var _ patient.PatientRepository = (*GormPatientRepository)(nil)
