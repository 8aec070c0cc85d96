package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// ChargeItem is one line of a charge: a product dispensed or administered to
// a patient, priced and counted. The stock location links the line to the
// stock level it draws from.
type ChargeItem struct {
	shared.BaseEntity
	ProductID       uuid.UUID
	PatientID       uuid.UUID
	StockLocationID *uuid.UUID
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
}

// NewChargeItem creates a charge item
func NewChargeItem(productID, patientID uuid.UUID, quantity, unitPrice decimal.Decimal) (ChargeItem, error) {
	if productID == uuid.Nil {
		return ChargeItem{}, shared.NewDomainError("INVALID_ITEM", "Charge item must reference a product")
	}
	if quantity.IsNegative() || unitPrice.IsNegative() {
		return ChargeItem{}, shared.NewDomainError("INVALID_ITEM", "Quantity and unit price cannot be negative")
	}
	return ChargeItem{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		PatientID:  patientID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
	}, nil
}

// Amount returns the line total, Quantity * UnitPrice
func (i ChargeItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// State captures the item fields the stock updater compares across saves
func (i ChargeItem) State() ChargeItemState {
	return ChargeItemState{
		ItemID:          i.ID,
		ProductID:       i.ProductID,
		StockLocationID: i.StockLocationID,
		Quantity:        i.Quantity,
	}
}

// ChargeItemState is an immutable snapshot of the stock-relevant fields of a
// charge item at one committed save.
type ChargeItemState struct {
	ItemID          uuid.UUID       `json:"item_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	StockLocationID *uuid.UUID      `json:"stock_location_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
}
