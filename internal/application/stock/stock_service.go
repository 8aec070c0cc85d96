package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/domain/stock"
)

// StockService manages stock locations and answers level queries. Manual
// adjustments (stocktakes, deliveries, breakage) go through the same store
// the charge updater writes to.
type StockService struct {
	locations stock.StockLocationRepository
	levels    stock.StockLevelRepository
	store     stock.StockStore
	logger    *zap.Logger
}

// StockServiceOption configures a StockService
type StockServiceOption func(*StockService)

// WithStockLogger sets the service logger
func WithStockLogger(logger *zap.Logger) StockServiceOption {
	return func(s *StockService) {
		s.logger = logger
	}
}

// NewStockService creates a StockService
func NewStockService(
	locations stock.StockLocationRepository,
	levels stock.StockLevelRepository,
	store stock.StockStore,
	opts ...StockServiceOption,
) *StockService {
	s := &StockService{
		locations: locations,
		levels:    levels,
		store:     store,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateLocation creates a stock location
func (s *StockService) CreateLocation(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error) {
	location, err := stock.NewStockLocation(req.Name)
	if err != nil {
		return nil, err
	}
	location.Description = req.Description
	if err := s.locations.Save(ctx, location); err != nil {
		return nil, err
	}
	s.logger.Info("created stock location", zap.String("location", location.ID.String()))
	resp := toLocationResponse(location)
	return &resp, nil
}

// ListLocations lists stock locations
func (s *StockService) ListLocations(ctx context.Context, filter shared.Filter) ([]LocationResponse, error) {
	locations, err := s.locations.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]LocationResponse, len(locations))
	for i := range locations {
		responses[i] = toLocationResponse(&locations[i])
	}
	return responses, nil
}

// GetLocationLevels lists the levels held at a location
func (s *StockService) GetLocationLevels(ctx context.Context, locationID uuid.UUID) ([]LevelResponse, error) {
	if _, err := s.locations.FindByID(ctx, locationID); err != nil {
		return nil, err
	}
	levels, err := s.levels.FindByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	responses := make([]LevelResponse, len(levels))
	for i, level := range levels {
		responses[i] = LevelResponse{
			LocationID: level.LocationID,
			ProductID:  level.ProductID,
			Quantity:   level.Quantity,
		}
	}
	return responses, nil
}

// Adjust applies a manual signed quantity change to one level
func (s *StockService) Adjust(ctx context.Context, req AdjustStockRequest) error {
	if req.Quantity.IsZero() {
		return shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment quantity cannot be zero")
	}
	if _, err := s.locations.FindByID(ctx, req.LocationID); err != nil {
		return err
	}
	err := s.store.AdjustLevels(ctx, []stock.StockDelta{{
		LocationID: req.LocationID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
	}})
	if err != nil {
		return err
	}
	s.logger.Info("manual stock adjustment",
		zap.String("location", req.LocationID.String()),
		zap.String("product", req.ProductID.String()),
		zap.String("quantity", req.Quantity.String()))
	return nil
}

// CreateLocationRequest creates a stock location
type CreateLocationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AdjustStockRequest applies a manual quantity change
type AdjustStockRequest struct {
	LocationID uuid.UUID       `json:"location_id" binding:"required"`
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
}

// LocationResponse is a stock location in API responses
type LocationResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
}

// LevelResponse is one stock level in API responses
type LevelResponse struct {
	LocationID uuid.UUID       `json:"location_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

func toLocationResponse(location *stock.StockLocation) LocationResponse {
	return LocationResponse{
		ID:          location.ID,
		Name:        location.Name,
		Description: location.Description,
		Active:      location.Active,
	}
}
