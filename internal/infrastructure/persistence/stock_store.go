package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vetdesk/backend/internal/domain/stock"
	"github.com/vetdesk/backend/internal/infrastructure/persistence/models"
)

// GormStockStore applies batches of signed quantity changes atomically
type GormStockStore struct {
	db *gorm.DB
}

// NewGormStockStore creates a new GormStockStore
func NewGormStockStore(db *gorm.DB) *GormStockStore {
	return &GormStockStore{db: db}
}

// AdjustLevels applies the deltas in one transaction, creating missing
// (location, product) levels as it goes. Rows are locked for update so
// concurrent charge saves serialize on the levels they touch.
func (s *GormStockStore) AdjustLevels(ctx context.Context, deltas []stock.StockDelta) error {
	if len(deltas) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, delta := range deltas {
			if delta.Quantity.IsZero() {
				continue
			}

			var model models.StockLevelModel
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("location_id = ? AND product_id = ?", delta.LocationID, delta.ProductID).
				First(&model).Error

			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				level, newErr := stock.NewStockLevel(delta.LocationID, delta.ProductID)
				if newErr != nil {
					return newErr
				}
				level.Adjust(delta.Quantity)
				if err := tx.Create(models.StockLevelModelFromDomain(level)).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				level := model.ToDomain()
				level.Adjust(delta.Quantity)
				if err := tx.Save(models.StockLevelModelFromDomain(level)).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Ensure GormStockStore implements StockStore
var _ stock.StockStore = (*GormStockStore)(nil)
