package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetdesk/backend/internal/domain/billing"
)

// FinancialActModel is the GORM model for financial acts
type FinancialActModel struct {
	AggregateModel
	CustomerID      uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	Kind            string            `gorm:"column:kind;not null"`
	Status          string            `gorm:"column:status;not null;index"`
	StartTime       time.Time         `gorm:"column:start_time;not null;index"`
	Total           decimal.Decimal   `gorm:"column:total;type:decimal(20,4);not null"`
	AllocatedAmount decimal.Decimal   `gorm:"column:allocated_amount;type:decimal(20,4);not null"`
	Unallocated     bool              `gorm:"column:unallocated;not null;default:false;index"`
	Notes           string            `gorm:"column:notes;type:text"`
	Items           []ChargeItemModel `gorm:"foreignKey:ActID"`
}

// TableName specifies the table name for FinancialActModel
func (FinancialActModel) TableName() string {
	return "financial_acts"
}

// ToDomain converts FinancialActModel to domain FinancialAct
func (m *FinancialActModel) ToDomain() *billing.FinancialAct {
	items := make([]billing.ChargeItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = item.ToDomain()
	}
	return &billing.FinancialAct{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		Kind:              billing.ActKind(m.Kind),
		Status:            billing.ActStatus(m.Status),
		StartTime:         m.StartTime,
		Total:             m.Total,
		AllocatedAmount:   m.AllocatedAmount,
		Unallocated:       m.Unallocated,
		Items:             items,
		Notes:             m.Notes,
	}
}

// FinancialActModelFromDomain creates FinancialActModel from domain FinancialAct
func FinancialActModelFromDomain(a *billing.FinancialAct) *FinancialActModel {
	model := &FinancialActModel{
		CustomerID:      a.CustomerID,
		Kind:            a.Kind.String(),
		Status:          a.Status.String(),
		StartTime:       a.StartTime,
		Total:           a.Total,
		AllocatedAmount: a.AllocatedAmount,
		Unallocated:     a.Unallocated,
		Notes:           a.Notes,
	}
	model.FromDomainAggregateRoot(a.BaseAggregateRoot)
	model.Items = make([]ChargeItemModel, len(a.Items))
	for i, item := range a.Items {
		model.Items[i] = ChargeItemModelFromDomain(a.ID, item)
	}
	return model
}

// ChargeItemModel is the GORM model for charge items
type ChargeItemModel struct {
	BaseModel
	ActID           uuid.UUID       `gorm:"column:act_id;type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	PatientID       uuid.UUID       `gorm:"column:patient_id;type:uuid;not null;index"`
	StockLocationID *uuid.UUID      `gorm:"column:stock_location_id;type:uuid"`
	Quantity        decimal.Decimal `gorm:"column:quantity;type:decimal(20,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:decimal(20,4);not null"`
}

// TableName specifies the table name for ChargeItemModel
func (ChargeItemModel) TableName() string {
	return "charge_items"
}

// ToDomain converts ChargeItemModel to domain ChargeItem
func (m *ChargeItemModel) ToDomain() billing.ChargeItem {
	return billing.ChargeItem{
		BaseEntity:      m.BaseModel.ToDomain(),
		ProductID:       m.ProductID,
		PatientID:       m.PatientID,
		StockLocationID: m.StockLocationID,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
	}
}

// ChargeItemModelFromDomain creates ChargeItemModel from a domain ChargeItem
// belonging to the given act
func ChargeItemModelFromDomain(actID uuid.UUID, item billing.ChargeItem) ChargeItemModel {
	model := ChargeItemModel{
		ActID:           actID,
		ProductID:       item.ProductID,
		PatientID:       item.PatientID,
		StockLocationID: item.StockLocationID,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
	}
	model.FromDomainBaseEntity(item.BaseEntity)
	return model
}

// AllocationModel is the GORM model for allocations between acts
type AllocationModel struct {
	BaseModel
	SourceID uuid.UUID       `gorm:"column:source_id;type:uuid;not null;index"`
	TargetID uuid.UUID       `gorm:"column:target_id;type:uuid;not null;index"`
	Amount   decimal.Decimal `gorm:"column:amount;type:decimal(20,4);not null"`
}

// TableName specifies the table name for AllocationModel
func (AllocationModel) TableName() string {
	return "allocations"
}

// ToDomain converts AllocationModel to domain Allocation
func (m *AllocationModel) ToDomain() *billing.Allocation {
	return &billing.Allocation{
		BaseEntity: m.BaseModel.ToDomain(),
		SourceID:   m.SourceID,
		TargetID:   m.TargetID,
		Amount:     m.Amount,
	}
}

// AllocationModelFromDomain creates AllocationModel from domain Allocation
func AllocationModelFromDomain(a *billing.Allocation) *AllocationModel {
	model := &AllocationModel{
		SourceID: a.SourceID,
		TargetID: a.TargetID,
		Amount:   a.Amount,
	}
	model.FromDomainBaseEntity(a.BaseEntity)
	return model
}
