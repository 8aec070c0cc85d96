package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/domain/stock"
	"github.com/vetdesk/backend/internal/infrastructure/persistence/models"
)

// GormStockLocationRepository implements StockLocationRepository using GORM
type GormStockLocationRepository struct {
	db *gorm.DB
}

// NewGormStockLocationRepository creates a new GormStockLocationRepository
func NewGormStockLocationRepository(db *gorm.DB) *GormStockLocationRepository {
	return &GormStockLocationRepository{db: db}
}

// FindByID finds a stock location by its ID
func (r *GormStockLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockLocation, error) {
	var model models.StockLocationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all stock locations matching the filter
func (r *GormStockLocationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.StockLocation, error) {
	var locationModels []models.StockLocationModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.StockLocationModel{}), filter)

	if err := query.Find(&locationModels).Error; err != nil {
		return nil, err
	}

	locations := make([]stock.StockLocation, len(locationModels))
	for i, model := range locationModels {
		locations[i] = *model.ToDomain()
	}
	return locations, nil
}

// Save creates or updates a stock location
func (r *GormStockLocationRepository) Save(ctx context.Context, location *stock.StockLocation) error {
	model := models.StockLocationModelFromDomain(location)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a stock location
func (r *GormStockLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StockLocationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormStockLocationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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

// GormStockLevelRepository implements StockLevelRepository using GORM
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// FindLevel finds the level for a (location, product) pair
func (r *GormStockLevelRepository) FindLevel(ctx context.Context, locationID, productID uuid.UUID) (*stock.StockLevel, error) {
	var model models.StockLevelModel
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND product_id = ?", locationID, productID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLocation lists the levels held at a location
func (r *GormStockLevelRepository) FindByLocation(ctx context.Context, locationID uuid.UUID) ([]stock.StockLevel, error) {
	var levelModels []models.StockLevelModel
	if err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("product_id ASC").
		Find(&levelModels).Error; err != nil {
		return nil, err
	}
	return toDomainLevels(levelModels), nil
}

// FindByProduct lists a product's levels across locations
func (r *GormStockLevelRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]stock.StockLevel, error) {
	var levelModels []models.StockLevelModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("location_id ASC").
		Find(&levelModels).Error; err != nil {
		return nil, err
	}
	return toDomainLevels(levelModels), nil
}

func toDomainLevels(levelModels []models.StockLevelModel) []stock.StockLevel {
	levels := make([]stock.StockLevel, len(levelModels))
	for i, model := range levelModels {
		levels[i] = *model.ToDomain()
	}
	return levels
}

// Ensure the repositories implement their domain interfaces
var (
	_ stock.StockLocationRepository = (*GormStockLocationRepository)(nil)
	_ stock.StockLevelRepository    = (*GormStockLevelRepository)(nil)
)
