package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/billing"
	"github.com/vetdesk/backend/internal/infrastructure/persistence/models"
)

// GormAllocationRepository implements AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// FindByActs finds the allocations whose source or target is any of the acts
func (r *GormAllocationRepository) FindByActs(ctx context.Context, actIDs []uuid.UUID) ([]*billing.Allocation, error) {
	if len(actIDs) == 0 {
		return []*billing.Allocation{}, nil
	}

	var allocationModels []models.AllocationModel
	if err := r.db.WithContext(ctx).
		Where("source_id IN ? OR target_id IN ?", actIDs, actIDs).
		Order("created_at ASC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}
	return toDomainAllocations(allocationModels), nil
}

// FindByAct finds the allocations touching one act
func (r *GormAllocationRepository) FindByAct(ctx context.Context, actID uuid.UUID) ([]*billing.Allocation, error) {
	var allocationModels []models.AllocationModel
	if err := r.db.WithContext(ctx).
		Where("source_id = ? OR target_id = ?", actID, actID).
		Order("created_at ASC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}
	return toDomainAllocations(allocationModels), nil
}

func toDomainAllocations(allocationModels []models.AllocationModel) []*billing.Allocation {
	allocations := make([]*billing.Allocation, len(allocationModels))
	for i := range allocationModels {
		allocations[i] = allocationModels[i].ToDomain()
	}
	return allocations
}

// Ensure GormAllocationRepository implements AllocationRepository
var _ billing.AllocationRepository = (*GormAllocationRepository)(nil)
