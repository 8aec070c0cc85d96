package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/billing"
	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/infrastructure/persistence/models"
)

// GormFinancialActRepository implements FinancialActRepository using GORM
type GormFinancialActRepository struct {
	db *gorm.DB
}

// NewGormFinancialActRepository creates a new GormFinancialActRepository
func NewGormFinancialActRepository(db *gorm.DB) *GormFinancialActRepository {
	return &GormFinancialActRepository{db: db}
}

// FindByID finds an act with its items
func (r *GormFinancialActRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.FinancialAct, error) {
	var model models.FinancialActModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer finds a customer's acts matching the filter
func (r *GormFinancialActRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]billing.FinancialAct, error) {
	var actModels []models.FinancialActModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.FinancialActModel{}).
			Preload("Items").
			Where("customer_id = ?", customerID),
		filter,
	)

	if err := query.Find(&actModels).Error; err != nil {
		return nil, err
	}

	acts := make([]billing.FinancialAct, len(actModels))
	for i, model := range actModels {
		acts[i] = *model.ToDomain()
	}
	return acts, nil
}

// FindPostedByCustomer finds all of a customer's posted acts
func (r *GormFinancialActRepository) FindPostedByCustomer(ctx context.Context, customerID uuid.UUID) ([]*billing.FinancialAct, error) {
	var actModels []models.FinancialActModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ? AND status = ?", customerID, billing.ActStatusPosted.String()).
		Order("start_time ASC, id ASC").
		Find(&actModels).Error; err != nil {
		return nil, err
	}
	return toDomainActPointers(actModels), nil
}

// FindAllByCustomer loads every act on the customer's account
func (r *GormFinancialActRepository) FindAllByCustomer(ctx context.Context, customerID uuid.UUID) ([]*billing.FinancialAct, error) {
	var actModels []models.FinancialActModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("start_time ASC, id ASC").
		Find(&actModels).Error; err != nil {
		return nil, err
	}
	return toDomainActPointers(actModels), nil
}

// FindUnallocated finds the customer's posted acts with an unallocated
// remainder, oldest first. The start_time, id ordering keeps allocation
// passes deterministic when acts share a start time.
func (r *GormFinancialActRepository) FindUnallocated(ctx context.Context, customerID uuid.UUID) ([]*billing.FinancialAct, error) {
	var actModels []models.FinancialActModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ? AND status = ? AND unallocated = ?", customerID, billing.ActStatusPosted.String(), true).
		Order("start_time ASC, id ASC").
		Find(&actModels).Error; err != nil {
		return nil, err
	}
	return toDomainActPointers(actModels), nil
}

// FindByIDs loads multiple acts with their items
func (r *GormFinancialActRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*billing.FinancialAct, error) {
	if len(ids) == 0 {
		return []*billing.FinancialAct{}, nil
	}

	var actModels []models.FinancialActModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id IN ?", ids).
		Find(&actModels).Error; err != nil {
		return nil, err
	}
	return toDomainActPointers(actModels), nil
}

// Save creates or updates an act with its items. Items removed from the act
// are deleted so the stored rows always mirror the aggregate.
func (r *GormFinancialActRepository) Save(ctx context.Context, act *billing.FinancialAct) error {
	model := models.FinancialActModelFromDomain(act)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]uuid.UUID, len(model.Items))
		for i, item := range model.Items {
			keep[i] = item.ID
		}
		stale := tx.Where("act_id = ?", model.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&models.ChargeItemModel{}).Error; err != nil {
			return err
		}
		return tx.Save(model).Error
	})
}

// Delete deletes an act and its items
func (r *GormFinancialActRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ChargeItemModel{}, "act_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.FinancialActModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func toDomainActPointers(actModels []models.FinancialActModel) []*billing.FinancialAct {
	acts := make([]*billing.FinancialAct, len(actModels))
	for i := range actModels {
		acts[i] = actModels[i].ToDomain()
	}
	return acts
}

// applyFilter applies filter options to the query
func (r *GormFinancialActRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "unallocated":
			query = query.Where("unallocated = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ActSortFields, "start_time")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormFinancialActRepository implements FinancialActRepository
var _ billing.FinancialActRepository = (*GormFinancialActRepository)(nil)
