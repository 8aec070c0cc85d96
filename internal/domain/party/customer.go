package party

import (
	"strings"
	"time"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// AccountType defines a customer's payment terms, used to split the balance
// into current and overdue.
type AccountType string

const (
	AccountTypeCash   AccountType = "CASH"   // due immediately
	AccountType7Days  AccountType = "NET_7"  // due within 7 days
	AccountType30Days AccountType = "NET_30" // due within 30 days
	AccountType60Days AccountType = "NET_60" // due within 60 days
)

// IsValid checks if the account type is valid
func (a AccountType) IsValid() bool {
	switch a {
	case AccountTypeCash, AccountType7Days, AccountType30Days, AccountType60Days:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (a AccountType) String() string {
	return string(a)
}

// PaymentTerms returns the grace period before a debit is overdue
func (a AccountType) PaymentTerms() time.Duration {
	switch a {
	case AccountType7Days:
		return 7 * 24 * time.Hour
	case AccountType30Days:
		return 30 * 24 * time.Hour
	case AccountType60Days:
		return 60 * 24 * time.Hour
	default:
		return 0
	}
}

// Customer is a pet owner holding an account with the practice
type Customer struct {
	shared.BaseAggregateRoot
	FirstName   string
	LastName    string
	AccountType AccountType
	Phone       string
	Email       string
	Address     string
	Suburb      string
	Postcode    string
	Notes       string
	Active      bool
}

// NewCustomer creates a new customer on cash terms
func NewCustomer(firstName, lastName string) (*Customer, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if lastName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer last name cannot be empty")
	}
	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		AccountType:       AccountTypeCash,
		Active:            true,
	}, nil
}

// Name returns the customer's display name
func (c *Customer) Name() string {
	if c.FirstName == "" {
		return c.LastName
	}
	return c.FirstName + " " + c.LastName
}

// Update changes the customer's name
func (c *Customer) Update(firstName, lastName string) error {
	lastName = strings.TrimSpace(lastName)
	if lastName == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer last name cannot be empty")
	}
	c.FirstName = strings.TrimSpace(firstName)
	c.LastName = lastName
	c.UpdatedAt = time.Now()
	return nil
}

// SetAccountType changes the customer's payment terms
func (c *Customer) SetAccountType(accountType AccountType) error {
	if !accountType.IsValid() {
		return shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Unknown account type: "+accountType.String())
	}
	c.AccountType = accountType
	c.UpdatedAt = time.Now()
	return nil
}

// SetContact sets the customer's contact details
func (c *Customer) SetContact(phone, email string) {
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.TrimSpace(email)
	c.UpdatedAt = time.Now()
}

// SetAddress sets the customer's postal address
func (c *Customer) SetAddress(address, suburb, postcode string) {
	c.Address = strings.TrimSpace(address)
	c.Suburb = strings.TrimSpace(suburb)
	c.Postcode = strings.TrimSpace(postcode)
	c.UpdatedAt = time.Now()
}

// Deactivate retires the customer record
func (c *Customer) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}
