package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/billing"
	"github.com/vetdesk/backend/internal/domain/party"
)

// AccountService answers balance questions about a customer's account.
// Overdue calculations use the payment terms of the customer's account type.
type AccountService struct {
	acts      billing.FinancialActRepository
	customers party.CustomerRepository
	service   *billing.BalanceService
	logger    *zap.Logger
}

// AccountServiceOption configures an AccountService
type AccountServiceOption func(*AccountService)

// WithAccountLogger sets the service logger
func WithAccountLogger(logger *zap.Logger) AccountServiceOption {
	return func(s *AccountService) {
		s.logger = logger
	}
}

// NewAccountService creates an AccountService
func NewAccountService(
	acts billing.FinancialActRepository,
	customers party.CustomerRepository,
	opts ...AccountServiceOption,
) *AccountService {
	s := &AccountService{
		acts:      acts,
		customers: customers,
		service:   billing.NewBalanceService(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetBalanceSummary reports the customer's account position as of now
func (s *AccountService) GetBalanceSummary(ctx context.Context, customerID uuid.UUID) (*BalanceSummaryResponse, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	acts, err := s.acts.FindAllByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &BalanceSummaryResponse{
		CustomerID:     customerID,
		Balance:        s.service.Balance(acts),
		OverdueBalance: s.service.OverdueBalance(acts, now, customer.AccountType.PaymentTerms()),
		CreditAmount:   s.service.CreditAmount(acts),
		UnbilledAmount: s.service.UnbilledAmount(acts),
		AsOf:           now,
	}, nil
}
