package stock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// StockLocation is a place stock is held: a dispensary, a van, a fridge
type StockLocation struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	Active      bool
}

// NewStockLocation creates a stock location
func NewStockLocation(name string) (*StockLocation, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location name is required")
	}
	return &StockLocation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Active:            true,
	}, nil
}

// Rename changes the location name
func (l *StockLocation) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_LOCATION", "Location name is required")
	}
	l.Name = name
	return nil
}

// Deactivate retires the location
func (l *StockLocation) Deactivate() {
	l.Active = false
}

// StockLevel is the on-hand quantity of one product at one location. Levels
// go negative when dispensing outruns recorded receipts; the quantity is a
// running ledger, not a guarded balance.
type StockLevel struct {
	shared.BaseEntity
	LocationID uuid.UUID
	ProductID  uuid.UUID
	Quantity   decimal.Decimal
}

// NewStockLevel creates a zero level for a (location, product) pair
func NewStockLevel(locationID, productID uuid.UUID) (*StockLevel, error) {
	if locationID == uuid.Nil || productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Stock level needs a location and a product")
	}
	return &StockLevel{
		BaseEntity: shared.NewBaseEntity(),
		LocationID: locationID,
		ProductID:  productID,
		Quantity:   decimal.Zero,
	}, nil
}

// Adjust applies a signed quantity change
func (l *StockLevel) Adjust(delta decimal.Decimal) {
	l.Quantity = l.Quantity.Add(delta)
}

// StockDelta is one signed quantity change against a (location, product)
// pair, produced by diffing charge item states across saves.
type StockDelta struct {
	LocationID uuid.UUID
	ProductID  uuid.UUID
	Quantity   decimal.Decimal
}
