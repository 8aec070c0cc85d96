package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/billing"
	"github.com/vetdesk/backend/internal/infrastructure/persistence/models"
)

// GormBalanceStore persists the outcome of one allocation pass atomically
type GormBalanceStore struct {
	db *gorm.DB
}

// NewGormBalanceStore creates a new GormBalanceStore
func NewGormBalanceStore(db *gorm.DB) *GormBalanceStore {
	return &GormBalanceStore{db: db}
}

// ApplyAllocation writes the touched acts, the created and updated
// allocations, and the deleted allocation rows in a single transaction.
// Only the allocation columns of an act are written; items and the act's
// own fields belong to the act repository.
func (s *GormBalanceStore) ApplyAllocation(ctx context.Context, change *billing.AllocationChange, deleted []uuid.UUID) error {
	if change == nil {
		change = &billing.AllocationChange{}
	}
	if change.IsEmpty() && len(deleted) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, act := range change.Acts {
			if err := tx.Model(&models.FinancialActModel{}).
				Where("id = ?", act.ID).
				Updates(map[string]interface{}{
					"allocated_amount": act.AllocatedAmount,
					"unallocated":      act.Unallocated,
					"updated_at":       now,
				}).Error; err != nil {
				return err
			}
		}

		for _, allocation := range change.Created {
			if err := tx.Create(models.AllocationModelFromDomain(allocation)).Error; err != nil {
				return err
			}
		}

		for _, allocation := range change.Updated {
			if err := tx.Model(&models.AllocationModel{}).
				Where("id = ?", allocation.ID).
				Updates(map[string]interface{}{
					"amount":     allocation.Amount,
					"updated_at": now,
				}).Error; err != nil {
				return err
			}
		}

		if len(deleted) > 0 {
			if err := tx.Delete(&models.AllocationModel{}, "id IN ?", deleted).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormBalanceStore implements BalanceStore
var _ billing.BalanceStore = (*GormBalanceStore)(nil)
