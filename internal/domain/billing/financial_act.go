package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// ActKind identifies a customer account act and fixes its polarity.
type ActKind string

const (
	// Debits increase what the customer owes.
	ActKindInvoice         ActKind = "INVOICE"
	ActKindCounterCharge   ActKind = "COUNTER_CHARGE"
	ActKindDebitAdjustment ActKind = "DEBIT_ADJUSTMENT"
	ActKindRefund          ActKind = "REFUND"
	ActKindInitialBalance  ActKind = "INITIAL_BALANCE"
	// Credits reduce what the customer owes.
	ActKindCredit           ActKind = "CREDIT"
	ActKindPayment          ActKind = "PAYMENT"
	ActKindCreditAdjustment ActKind = "CREDIT_ADJUSTMENT"
	ActKindBadDebt          ActKind = "BAD_DEBT"
)

// IsValid checks if the kind is a valid ActKind
func (k ActKind) IsValid() bool {
	switch k {
	case ActKindInvoice, ActKindCounterCharge, ActKindDebitAdjustment, ActKindRefund,
		ActKindInitialBalance, ActKindCredit, ActKindPayment, ActKindCreditAdjustment,
		ActKindBadDebt:
		return true
	}
	return false
}

// String returns the string representation of ActKind
func (k ActKind) String() string {
	return string(k)
}

// IsCredit returns true for kinds that reduce the customer's balance
func (k ActKind) IsCredit() bool {
	switch k {
	case ActKindCredit, ActKindPayment, ActKindCreditAdjustment, ActKindBadDebt:
		return true
	}
	return false
}

// IsCharge returns true for kinds carrying charge items (stock-linked)
func (k ActKind) IsCharge() bool {
	return k == ActKindInvoice || k == ActKindCounterCharge || k == ActKindCredit
}

// ActStatus represents the workflow status of a financial act
type ActStatus string

const (
	ActStatusInProgress ActStatus = "IN_PROGRESS"
	ActStatusCompleted  ActStatus = "COMPLETED"
	ActStatusPosted     ActStatus = "POSTED"
)

// IsValid checks if the status is a valid ActStatus
func (s ActStatus) IsValid() bool {
	return s == ActStatusInProgress || s == ActStatusCompleted || s == ActStatusPosted
}

// String returns the string representation of ActStatus
func (s ActStatus) String() string {
	return string(s)
}

// FinancialAct is a posted-or-pending entry on a customer's account: a
// charge, payment, credit or adjustment. Once posted it participates in
// balance allocation; the engine accumulates AllocatedAmount against Total
// and keeps the two reconciled through Allocation relationships.
type FinancialAct struct {
	shared.BaseAggregateRoot
	CustomerID      uuid.UUID
	Kind            ActKind
	Status          ActStatus
	StartTime       time.Time
	Total           decimal.Decimal
	AllocatedAmount decimal.Decimal
	// Unallocated flags posted acts with an unallocated remainder. It is
	// what the engine queries by, and clearing it when an act is fully
	// allocated is what makes a re-save a no-op.
	Unallocated bool
	Items       []ChargeItem
	Notes       string
}

// NewFinancialAct creates an in-progress act for a customer
func NewFinancialAct(customerID uuid.UUID, kind ActKind, startTime time.Time) (*FinancialAct, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACT", "Unknown act kind: "+kind.String())
	}
	if customerID == uuid.Nil {
		return nil, shared.ErrMissingCustomer
	}
	return &FinancialAct{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Kind:              kind,
		Status:            ActStatusInProgress,
		StartTime:         startTime,
		Total:             decimal.Zero,
		AllocatedAmount:   decimal.Zero,
	}, nil
}

// NewFixedAct creates an act with a fixed total (payments, refunds,
// adjustments, initial balances)
func NewFixedAct(customerID uuid.UUID, kind ActKind, startTime time.Time, total decimal.Decimal) (*FinancialAct, error) {
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ACT", "Act total cannot be negative")
	}
	act, err := NewFinancialAct(customerID, kind, startTime)
	if err != nil {
		return nil, err
	}
	act.Total = total
	return act, nil
}

// AddItem appends a charge item and recalculates the act total
func (a *FinancialAct) AddItem(item ChargeItem) error {
	if a.Status == ActStatusPosted {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a posted act")
	}
	if !a.Kind.IsCharge() {
		return shared.NewDomainError("INVALID_ACT", "Only charges carry items")
	}
	a.Items = append(a.Items, item)
	a.recalculate()
	return nil
}

// UpdateItem replaces an existing item and recalculates the act total
func (a *FinancialAct) UpdateItem(item ChargeItem) error {
	if a.Status == ActStatusPosted {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a posted act")
	}
	for i := range a.Items {
		if a.Items[i].ID == item.ID {
			a.Items[i] = item
			a.recalculate()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveItem deletes an item and recalculates the act total
func (a *FinancialAct) RemoveItem(itemID uuid.UUID) error {
	if a.Status == ActStatusPosted {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a posted act")
	}
	for i := range a.Items {
		if a.Items[i].ID == itemID {
			a.Items = append(a.Items[:i], a.Items[i+1:]...)
			a.recalculate()
			return nil
		}
	}
	return shared.ErrNotFound
}

func (a *FinancialAct) recalculate() {
	total := decimal.Zero
	for _, item := range a.Items {
		total = total.Add(item.Amount())
	}
	a.Total = total
	a.UpdatedAt = time.Now()
}

// Complete marks the act finished but not yet on the account
func (a *FinancialAct) Complete() error {
	if a.Status == ActStatusPosted {
		return shared.NewDomainError("INVALID_STATE", "Act is already posted")
	}
	a.Status = ActStatusCompleted
	a.UpdatedAt = time.Now()
	return nil
}

// Post puts the act on the customer's account, making it visible to the
// balance engine. Posting is one-way.
func (a *FinancialAct) Post() error {
	if a.Status == ActStatusPosted {
		return shared.NewDomainError("INVALID_STATE", "Act is already posted")
	}
	if a.CustomerID == uuid.Nil {
		return shared.ErrMissingCustomer
	}
	a.Status = ActStatusPosted
	a.Unallocated = a.Allocatable().IsPositive()
	a.UpdatedAt = time.Now()
	return nil
}

// IsPosted returns true once the act is on the account
func (a *FinancialAct) IsPosted() bool {
	return a.Status == ActStatusPosted
}

// IsCredit returns true if the act reduces the customer's balance
func (a *FinancialAct) IsCredit() bool {
	return a.Kind.IsCredit()
}

// Allocatable returns the unallocated remainder, Total - AllocatedAmount
func (a *FinancialAct) Allocatable() decimal.Decimal {
	return a.Total.Sub(a.AllocatedAmount)
}

// addAllocated accumulates an allocation against the act. The amount must be
// positive and must not push AllocatedAmount past Total.
func (a *FinancialAct) addAllocated(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_ALLOCATION", "Allocation amount cannot be negative")
	}
	if amount.GreaterThan(a.Allocatable()) {
		return shared.ErrOverAllocation
	}
	a.AllocatedAmount = a.AllocatedAmount.Add(amount)
	a.Unallocated = a.IsPosted() && a.Allocatable().IsPositive()
	a.UpdatedAt = time.Now()
	return nil
}

// subtractAllocated reverses a previously applied allocation
func (a *FinancialAct) subtractAllocated(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_ALLOCATION", "Allocation amount cannot be negative")
	}
	if amount.GreaterThan(a.AllocatedAmount) {
		return shared.NewDomainError("INVALID_ALLOCATION", "Cannot reverse more than is allocated")
	}
	a.AllocatedAmount = a.AllocatedAmount.Sub(amount)
	a.Unallocated = a.IsPosted() && a.Allocatable().IsPositive()
	a.UpdatedAt = time.Now()
	return nil
}
