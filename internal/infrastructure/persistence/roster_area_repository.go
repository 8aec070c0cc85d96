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

// GormRosterAreaRepository implements RosterAreaRepository using GORM
type GormRosterAreaRepository struct {
	db *gorm.DB
}

// NewGormRosterAreaRepository creates a new GormRosterAreaRepository
func NewGormRosterAreaRepository(db *gorm.DB) *GormRosterAreaRepository {
	return &GormRosterAreaRepository{db: db}
}

// FindByID finds a roster area by its ID
func (r *GormRosterAreaRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.RosterArea, error) {
	var model models.RosterAreaModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all roster areas matching the filter
func (r *GormRosterAreaRepository) FindAll(ctx context.Context, filter shared.Filter) ([]scheduling.RosterArea, error) {
	var areaModels []models.RosterAreaModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.RosterAreaModel{}), filter)

	if err := query.Find(&areaModels).Error; err != nil {
		return nil, err
	}

	areas := make([]scheduling.RosterArea, len(areaModels))
	for i, model := range areaModels {
		areas[i] = *model.ToDomain()
	}
	return areas, nil
}

// Save creates or updates a roster area
func (r *GormRosterAreaRepository) Save(ctx context.Context, area *scheduling.RosterArea) error {
	model := models.RosterAreaModelFromDomain(area)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a roster area
func (r *GormRosterAreaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RosterAreaModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormRosterAreaRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, NameSortFields, "name")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormRosterAreaRepository implements RosterAreaRepository
var _ scheduling.RosterAreaRepository = (*GormRosterAreaRepository)(nil)
