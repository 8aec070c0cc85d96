package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// FinancialActRepository defines the interface for financial act persistence
type FinancialActRepository interface {
	// FindByID finds an act with its items
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialAct, error)

	// FindByCustomer finds a customer's acts matching the filter
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]FinancialAct, error)

	// FindPostedByCustomer finds all of a customer's posted acts
	FindPostedByCustomer(ctx context.Context, customerID uuid.UUID) ([]*FinancialAct, error)

	// FindAllByCustomer loads every act on the customer's account, posted
	// or not, for balance summaries
	FindAllByCustomer(ctx context.Context, customerID uuid.UUID) ([]*FinancialAct, error)

	// FindUnallocated finds the customer's posted acts with an unallocated
	// remainder, ordered by start time then ID (oldest first).
	FindUnallocated(ctx context.Context, customerID uuid.UUID) ([]*FinancialAct, error)

	// FindByIDs loads multiple acts
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*FinancialAct, error)

	// Save creates or updates an act with its items
	Save(ctx context.Context, act *FinancialAct) error

	// Delete deletes an act and its items
	Delete(ctx context.Context, id uuid.UUID) error
}

// AllocationRepository defines the interface for allocation persistence
type AllocationRepository interface {
	// FindByActs finds the allocations whose source or target is any of the
	// given acts
	FindByActs(ctx context.Context, actIDs []uuid.UUID) ([]*Allocation, error)

	// FindByAct finds the allocations touching one act
	FindByAct(ctx context.Context, actID uuid.UUID) ([]*Allocation, error)
}

// BalanceStore persists the outcome of one allocation pass atomically: the
// touched acts, the created and updated allocations, and any deleted
// allocation rows land in a single transaction or not at all.
type BalanceStore interface {
	ApplyAllocation(ctx context.Context, change *AllocationChange, deleted []uuid.UUID) error
}
