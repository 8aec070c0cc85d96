package party

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/party"
	"github.com/vetdesk/backend/internal/domain/shared"
)

// CustomerService manages customer records
type CustomerService struct {
	customers party.CustomerRepository
	logger    *zap.Logger
}

// CustomerServiceOption configures a CustomerService
type CustomerServiceOption func(*CustomerService)

// WithCustomerLogger sets the service logger
func WithCustomerLogger(logger *zap.Logger) CustomerServiceOption {
	return func(s *CustomerService) {
		s.logger = logger
	}
}

// NewCustomerService creates a CustomerService
func NewCustomerService(customers party.CustomerRepository, opts ...CustomerServiceOption) *CustomerService {
	s := &CustomerService{
		customers: customers,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCustomer creates a customer record
func (s *CustomerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := party.NewCustomer(req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	if req.AccountType != "" {
		if err := customer.SetAccountType(party.AccountType(req.AccountType)); err != nil {
			return nil, err
		}
	}
	customer.SetContact(req.Phone, req.Email)
	customer.SetAddress(req.Address, req.Suburb, req.Postcode)
	customer.Notes = req.Notes

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.logger.Info("created customer", zap.String("customer", customer.ID.String()))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetCustomer loads one customer
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// ListCustomers lists customers matching the filter
func (s *CustomerService) ListCustomers(ctx context.Context, filter shared.Filter) (*shared.Paginated[CustomerResponse], error) {
	customers, err := s.customers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customers.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateCustomer updates a customer record
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil || req.LastName != nil {
		firstName, lastName := customer.FirstName, customer.LastName
		if req.FirstName != nil {
			firstName = *req.FirstName
		}
		if req.LastName != nil {
			lastName = *req.LastName
		}
		if err := customer.Update(firstName, lastName); err != nil {
			return nil, err
		}
	}
	if req.AccountType != nil {
		if err := customer.SetAccountType(party.AccountType(*req.AccountType)); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil || req.Email != nil {
		phone, email := customer.Phone, customer.Email
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		customer.SetContact(phone, email)
	}
	if req.Address != nil {
		customer.SetAddress(*req.Address, orCurrent(req.Suburb, customer.Suburb), orCurrent(req.Postcode, customer.Postcode))
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// DeactivateCustomer retires a customer record
func (s *CustomerService) DeactivateCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	customer.Deactivate()
	if err := s.customers.Save(ctx, customer); err != nil {
		return err
	}
	s.logger.Info("deactivated customer", zap.String("customer", id.String()))
	return nil
}

func orCurrent(value *string, current string) string {
	if value != nil {
		return *value
	}
	return current
}
