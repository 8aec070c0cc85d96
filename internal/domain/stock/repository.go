package stock

import (
	"context"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// StockLocationRepository defines the interface for stock location persistence
type StockLocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockLocation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]StockLocation, error)
	Save(ctx context.Context, location *StockLocation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockLevelRepository defines the interface for stock level queries
type StockLevelRepository interface {
	// FindLevel finds the level for a (location, product) pair
	FindLevel(ctx context.Context, locationID, productID uuid.UUID) (*StockLevel, error)

	// FindByLocation lists the levels held at a location
	FindByLocation(ctx context.Context, locationID uuid.UUID) ([]StockLevel, error)

	// FindByProduct lists a product's levels across locations
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StockLevel, error)
}

// StockStore applies a batch of signed quantity changes atomically, creating
// missing (location, product) levels as it goes.
type StockStore interface {
	AdjustLevels(ctx context.Context, deltas []StockDelta) error
}
