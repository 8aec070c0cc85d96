package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/scheduling"
	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/infrastructure/persistence/models"
)

// GormAppointmentRepository implements AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// FindByID finds an appointment by its ID
func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	var model models.AppointmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySchedule finds a schedule's appointments intersecting [from, to)
func (r *GormAppointmentRepository) FindBySchedule(ctx context.Context, scheduleID uuid.UUID, from, to time.Time) ([]scheduling.Appointment, error) {
	var appointmentModels []models.AppointmentModel
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND start_time < ? AND end_time > ?", scheduleID, to, from).
		Order("start_time ASC").
		Find(&appointmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainAppointments(appointmentModels), nil
}

// FindByPatient finds a patient's appointments matching the filter
func (r *GormAppointmentRepository) FindByPatient(ctx context.Context, patientID uuid.UUID, filter shared.Filter) ([]scheduling.Appointment, error) {
	var appointmentModels []models.AppointmentModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.AppointmentModel{}).Where("patient_id = ?", patientID),
		filter,
	)

	if err := query.Find(&appointmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainAppointments(appointmentModels), nil
}

// FindByCustomer finds a customer's appointments matching the filter
func (r *GormAppointmentRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]scheduling.Appointment, error) {
	var appointmentModels []models.AppointmentModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.AppointmentModel{}).Where("customer_id = ?", customerID),
		filter,
	)

	if err := query.Find(&appointmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainAppointments(appointmentModels), nil
}

// Save creates or updates an appointment
func (r *GormAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	model := models.AppointmentModelFromDomain(appointment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an appointment
func (r *GormAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AppointmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainAppointments(appointmentModels []models.AppointmentModel) []scheduling.Appointment {
	appointments := make([]scheduling.Appointment, len(appointmentModels))
	for i, model := range appointmentModels {
		appointments[i] = *model.ToDomain()
	}
	return appointments
}

// applyFilter applies filter options to the query
func (r *GormAppointmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "schedule_id":
			query = query.Where("schedule_id = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ActSortFields, "start_time")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormAppointmentRepository implements AppointmentRepository
var _ scheduling.AppointmentRepository = (*GormAppointmentRepository)(nil)
