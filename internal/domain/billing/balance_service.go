package billing

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// BalanceService is the customer account allocation engine. It is pure: it
// mutates the in-memory acts and allocations handed to it and reports what
// changed, leaving persistence to the caller so everything lands in one
// transaction.
type BalanceService struct{}

// NewBalanceService creates a BalanceService
func NewBalanceService() *BalanceService {
	return &BalanceService{}
}

// AllocationChange reports the effects of one allocation pass: the acts
// whose allocated amounts moved and the relationships created or updated.
type AllocationChange struct {
	Acts    []*FinancialAct
	Created []*Allocation
	Updated []*Allocation
}

// IsEmpty returns true when the pass changed nothing
func (c *AllocationChange) IsEmpty() bool {
	return len(c.Acts) == 0 && len(c.Created) == 0 && len(c.Updated) == 0
}

type actPair struct {
	source uuid.UUID
	target uuid.UUID
}

// Allocate offsets posted credits against posted debits for one customer,
// oldest first, pairing min(remaining) amounts and recording provenance in
// allocation relationships (debit as source, credit as target). Acts already
// fully allocated are untouched, so re-running the pass over an allocated
// account changes nothing.
//
// Validation failures (customer mismatch, missing customer) are reported
// before any act is mutated.
func (s *BalanceService) Allocate(acts []*FinancialAct, existing []*Allocation) (*AllocationChange, error) {
	if err := validateActs(acts); err != nil {
		return nil, err
	}

	posted := make([]*FinancialAct, 0, len(acts))
	for _, act := range acts {
		if act.IsPosted() {
			posted = append(posted, act)
		}
	}
	sortOldestFirst(posted)

	var debits, credits []*FinancialAct
	for _, act := range posted {
		if !act.Allocatable().IsPositive() {
			continue
		}
		if act.IsCredit() {
			credits = append(credits, act)
		} else {
			debits = append(debits, act)
		}
	}

	relationships := make(map[actPair]*Allocation, len(existing))
	for _, allocation := range existing {
		relationships[actPair{allocation.SourceID, allocation.TargetID}] = allocation
	}

	change := &AllocationChange{}
	touched := make(map[uuid.UUID]*FinancialAct)
	updated := make(map[uuid.UUID]*Allocation)

	for _, credit := range credits {
		for _, debit := range debits {
			if !credit.Allocatable().IsPositive() {
				break
			}
			amount := decimal.Min(credit.Allocatable(), debit.Allocatable())
			if !amount.IsPositive() {
				continue
			}
			if err := debit.addAllocated(amount); err != nil {
				return nil, err
			}
			if err := credit.addAllocated(amount); err != nil {
				return nil, err
			}
			touched[debit.ID] = debit
			touched[credit.ID] = credit

			pair := actPair{debit.ID, credit.ID}
			if allocation, ok := relationships[pair]; ok {
				if err := allocation.Accumulate(amount); err != nil {
					return nil, err
				}
				updated[allocation.ID] = allocation
			} else {
				allocation, err := NewAllocation(debit.ID, credit.ID, amount)
				if err != nil {
					return nil, err
				}
				relationships[pair] = allocation
				change.Created = append(change.Created, allocation)
			}
		}
	}

	for _, act := range posted {
		if dirty, ok := touched[act.ID]; ok {
			change.Acts = append(change.Acts, dirty)
		}
	}
	for _, allocation := range updated {
		change.Updated = append(change.Updated, allocation)
	}
	return change, nil
}

// Reverse undoes the allocations touching one act, typically ahead of its
// removal or a change to its total. The counterpart acts have the reversed
// amounts subtracted and the relationships are reported for deletion.
func (s *BalanceService) Reverse(act *FinancialAct, counterparts map[uuid.UUID]*FinancialAct, allocations []*Allocation) (*AllocationChange, error) {
	change := &AllocationChange{}
	for _, allocation := range allocations {
		if allocation.SourceID != act.ID && allocation.TargetID != act.ID {
			continue
		}
		otherID := allocation.SourceID
		if otherID == act.ID {
			otherID = allocation.TargetID
		}
		other, ok := counterparts[otherID]
		if !ok {
			return nil, shared.NewDomainError("MISSING_ACT", "Allocation counterpart not loaded")
		}
		if err := other.subtractAllocated(allocation.Amount); err != nil {
			return nil, err
		}
		if err := act.subtractAllocated(allocation.Amount); err != nil {
			return nil, err
		}
		change.Acts = append(change.Acts, other)
	}
	if len(change.Acts) > 0 {
		change.Acts = append(change.Acts, act)
	}
	return change, nil
}

// Balance returns the customer's running balance over the given acts:
// posted debit totals less posted credit totals.
func (s *BalanceService) Balance(acts []*FinancialAct) decimal.Decimal {
	balance := decimal.Zero
	for _, act := range acts {
		if !act.IsPosted() {
			continue
		}
		if act.IsCredit() {
			balance = balance.Sub(act.Total)
		} else {
			balance = balance.Add(act.Total)
		}
	}
	return balance
}

// OverdueBalance returns the unallocated remainder of posted debits that
// fell due before asOf less the customer's payment terms.
func (s *BalanceService) OverdueBalance(acts []*FinancialAct, asOf time.Time, paymentTerms time.Duration) decimal.Decimal {
	cutoff := asOf.Add(-paymentTerms)
	overdue := decimal.Zero
	for _, act := range acts {
		if act.IsPosted() && !act.IsCredit() && act.StartTime.Before(cutoff) {
			overdue = overdue.Add(act.Allocatable())
		}
	}
	return overdue
}

// CreditAmount returns the unallocated remainder of posted credits
func (s *BalanceService) CreditAmount(acts []*FinancialAct) decimal.Decimal {
	credit := decimal.Zero
	for _, act := range acts {
		if act.IsPosted() && act.IsCredit() {
			credit = credit.Add(act.Allocatable())
		}
	}
	return credit
}

// UnbilledAmount returns the signed total of acts not yet posted
func (s *BalanceService) UnbilledAmount(acts []*FinancialAct) decimal.Decimal {
	unbilled := decimal.Zero
	for _, act := range acts {
		if act.IsPosted() {
			continue
		}
		if act.IsCredit() {
			unbilled = unbilled.Sub(act.Total)
		} else {
			unbilled = unbilled.Add(act.Total)
		}
	}
	return unbilled
}

// InBalance reports whether an act contributes nothing further to
// allocation: not yet posted, a zero total, or no unallocated remainder.
// The balance updater uses it to detect no-op saves and skip the pass.
func (s *BalanceService) InBalance(act *FinancialAct) bool {
	if !act.IsPosted() {
		return true
	}
	return act.Total.IsZero() || !act.Allocatable().IsPositive()
}

func validateActs(acts []*FinancialAct) error {
	var customer uuid.UUID
	for _, act := range acts {
		if act.CustomerID == uuid.Nil {
			return shared.ErrMissingCustomer
		}
		if customer == uuid.Nil {
			customer = act.CustomerID
		} else if act.CustomerID != customer {
			return shared.NewDomainError("CUSTOMER_MISMATCH", "Acts belong to different customers")
		}
	}
	return nil
}

// sortOldestFirst orders acts by start time, breaking ties on ID so the
// ordering is total and stable across processes.
func sortOldestFirst(acts []*FinancialAct) {
	sort.SliceStable(acts, func(i, j int) bool {
		if acts[i].StartTime.Equal(acts[j].StartTime) {
			return bytes.Compare(acts[i].ID[:], acts[j].ID[:]) < 0
		}
		return acts[i].StartTime.Before(acts[j].StartTime)
	})
}
