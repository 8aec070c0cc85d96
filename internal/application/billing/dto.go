package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetdesk/backend/internal/domain/billing"
)

// CreateChargeRequest opens a new charge act for a customer
type CreateChargeRequest struct {
	CustomerID uuid.UUID           `json:"customer_id" binding:"required"`
	Kind       string              `json:"kind" binding:"required,oneof=INVOICE COUNTER_CHARGE CREDIT"`
	StartTime  time.Time           `json:"start_time"`
	Notes      string              `json:"notes"`
	Items      []ChargeItemRequest `json:"items" binding:"dive"`
}

// ChargeItemRequest is one line of a charge
type ChargeItemRequest struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	PatientID       uuid.UUID       `json:"patient_id" binding:"required"`
	StockLocationID *uuid.UUID      `json:"stock_location_id"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateChargeItemRequest replaces the mutable fields of an existing item
type UpdateChargeItemRequest struct {
	StockLocationID *uuid.UUID       `json:"stock_location_id"`
	ProductID       *uuid.UUID       `json:"product_id"`
	Quantity        *decimal.Decimal `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
}

// CreatePaymentRequest records a fixed-total act against a customer's account
type CreatePaymentRequest struct {
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	Kind       string          `json:"kind" binding:"required,oneof=PAYMENT REFUND DEBIT_ADJUSTMENT CREDIT_ADJUSTMENT INITIAL_BALANCE BAD_DEBT"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	StartTime  time.Time       `json:"start_time"`
	Notes      string          `json:"notes"`
	// Post immediately puts the act on the account, which is the normal
	// flow for payments taken at the counter.
	Post bool `json:"post"`
}

// ChargeItemResponse is one charge line in API responses
type ChargeItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	PatientID       uuid.UUID       `json:"patient_id"`
	StockLocationID *uuid.UUID      `json:"stock_location_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Amount          decimal.Decimal `json:"amount"`
}

// FinancialActResponse is a financial act in API responses
type FinancialActResponse struct {
	ID              uuid.UUID            `json:"id"`
	CustomerID      uuid.UUID            `json:"customer_id"`
	Kind            string               `json:"kind"`
	Status          string               `json:"status"`
	StartTime       time.Time            `json:"start_time"`
	Total           decimal.Decimal      `json:"total"`
	AllocatedAmount decimal.Decimal      `json:"allocated_amount"`
	Allocatable     decimal.Decimal      `json:"allocatable"`
	Credit          bool                 `json:"credit"`
	Items           []ChargeItemResponse `json:"items,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// ToFinancialActResponse converts a financial act to its response form
func ToFinancialActResponse(act *billing.FinancialAct) FinancialActResponse {
	resp := FinancialActResponse{
		ID:              act.ID,
		CustomerID:      act.CustomerID,
		Kind:            act.Kind.String(),
		Status:          act.Status.String(),
		StartTime:       act.StartTime,
		Total:           act.Total,
		AllocatedAmount: act.AllocatedAmount,
		Allocatable:     act.Allocatable(),
		Credit:          act.IsCredit(),
		Notes:           act.Notes,
		CreatedAt:       act.CreatedAt,
		UpdatedAt:       act.UpdatedAt,
	}
	for _, item := range act.Items {
		resp.Items = append(resp.Items, ChargeItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			PatientID:       item.PatientID,
			StockLocationID: item.StockLocationID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			Amount:          item.Amount(),
		})
	}
	return resp
}

// BalanceSummaryResponse reports a customer's account position
type BalanceSummaryResponse struct {
	CustomerID     uuid.UUID       `json:"customer_id"`
	Balance        decimal.Decimal `json:"balance"`
	OverdueBalance decimal.Decimal `json:"overdue_balance"`
	CreditAmount   decimal.Decimal `json:"credit_amount"`
	UnbilledAmount decimal.Decimal `json:"unbilled_amount"`
	AsOf           time.Time       `json:"as_of"`
}
