package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// Allocation links a debit act to the credit act that pays it down, with the
// amount allocated between the pair. The debit is always the source and the
// credit the target, regardless of which act triggered the allocation.
type Allocation struct {
	shared.BaseEntity
	SourceID uuid.UUID // debit act
	TargetID uuid.UUID // credit act
	Amount   decimal.Decimal
}

// NewAllocation creates an allocation between a debit and a credit act
func NewAllocation(sourceID, targetID uuid.UUID, amount decimal.Decimal) (*Allocation, error) {
	if sourceID == uuid.Nil || targetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Allocation must link two acts")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Allocation amount cannot be negative")
	}
	return &Allocation{
		BaseEntity: shared.NewBaseEntity(),
		SourceID:   sourceID,
		TargetID:   targetID,
		Amount:     amount,
	}, nil
}

// Accumulate adds to the allocated amount for an existing debit/credit pair
func (a *Allocation) Accumulate(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_ALLOCATION", "Allocation amount cannot be negative")
	}
	a.Amount = a.Amount.Add(amount)
	return nil
}
