package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/scheduling"
	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/infrastructure/persistence/models"
)

// GormScheduleRepository implements ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// FindByID finds a schedule by its ID
func (r *GormScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Schedule, error) {
	var model models.ScheduleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all schedules matching the filter
func (r *GormScheduleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]scheduling.Schedule, error) {
	var scheduleModels []models.ScheduleModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ScheduleModel{}), filter)

	if err := query.Find(&scheduleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSchedules(scheduleModels), nil
}

// FindActiveByArea finds the active schedules linked to a roster area
func (r *GormScheduleRepository) FindActiveByArea(ctx context.Context, areaID uuid.UUID) ([]scheduling.Schedule, error) {
	var scheduleModels []models.ScheduleModel
	if err := r.db.WithContext(ctx).
		Where("area_id = ? AND active = ?", areaID, true).
		Order("name ASC").
		Find(&scheduleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSchedules(scheduleModels), nil
}

// Save creates or updates a schedule
func (r *GormScheduleRepository) Save(ctx context.Context, schedule *scheduling.Schedule) error {
	model := models.ScheduleModelFromDomain(schedule)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a schedule
func (r *GormScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ScheduleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainSchedules(scheduleModels []models.ScheduleModel) []scheduling.Schedule {
	schedules := make([]scheduling.Schedule, len(scheduleModels))
	for i, model := range scheduleModels {
		schedules[i] = *model.ToDomain()
	}
	return schedules
}

// applyFilter applies filter options to the query
func (r *GormScheduleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "area_id":
			query = query.Where("area_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, NameSortFields, "name")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormScheduleRepository implements ScheduleRepository
var _ scheduling.ScheduleRepository = (*GormScheduleRepository)(nil)
