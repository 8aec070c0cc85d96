package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetdesk/backend/internal/domain/stock"
)

// StockLocationModel is the GORM model for stock locations
type StockLocationModel struct {
	AggregateModel
	Name        string `gorm:"column:name;not null"`
	Description string `gorm:"column:description"`
	Active      bool   `gorm:"column:active;not null;default:true;index"`
}

// TableName specifies the table name for StockLocationModel
func (StockLocationModel) TableName() string {
	return "stock_locations"
}

// ToDomain converts StockLocationModel to domain StockLocation
func (m *StockLocationModel) ToDomain() *stock.StockLocation {
	return &stock.StockLocation{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Active:            m.Active,
	}
}

// StockLocationModelFromDomain creates StockLocationModel from domain StockLocation
func StockLocationModelFromDomain(l *stock.StockLocation) *StockLocationModel {
	model := &StockLocationModel{
		Name:        l.Name,
		Description: l.Description,
		Active:      l.Active,
	}
	model.FromDomainAggregateRoot(l.BaseAggregateRoot)
	return model
}

// StockLevelModel is the GORM model for stock levels. One row per
// (location, product) pair.
type StockLevelModel struct {
	BaseModel
	LocationID uuid.UUID       `gorm:"column:location_id;type:uuid;not null;uniqueIndex:idx_stock_levels_location_product"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_stock_levels_location_product"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:decimal(20,4);not null"`
}

// TableName specifies the table name for StockLevelModel
func (StockLevelModel) TableName() string {
	return "stock_levels"
}

// ToDomain converts StockLevelModel to domain StockLevel
func (m *StockLevelModel) ToDomain() *stock.StockLevel {
	return &stock.StockLevel{
		BaseEntity: m.BaseModel.ToDomain(),
		LocationID: m.LocationID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
	}
}

// StockLevelModelFromDomain creates StockLevelModel from domain StockLevel
func StockLevelModelFromDomain(l *stock.StockLevel) *StockLevelModel {
	model := &StockLevelModel{
		LocationID: l.LocationID,
		ProductID:  l.ProductID,
		Quantity:   l.Quantity,
	}
	model.FromDomainBaseEntity(l.BaseEntity)
	return model
}
