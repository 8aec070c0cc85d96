package party

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/domain/party"
)

// CreateCustomerRequest creates a customer record
type CreateCustomerRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	AccountType string `json:"account_type" binding:"omitempty,oneof=CASH NET_7 NET_30 NET_60"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	Suburb      string `json:"suburb"`
	Postcode    string `json:"postcode"`
	Notes       string `json:"notes"`
}

// UpdateCustomerRequest updates a customer record
type UpdateCustomerRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	AccountType *string `json:"account_type" binding:"omitempty,oneof=CASH NET_7 NET_30 NET_60"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Address     *string `json:"address"`
	Suburb      *string `json:"suburb"`
	Postcode    *string `json:"postcode"`
	Notes       *string `json:"notes"`
}

// CustomerResponse is a customer in API responses
type CustomerResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Name        string    `json:"name"`
	AccountType string    `json:"account_type"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	Suburb      string    `json:"suburb,omitempty"`
	Postcode    string    `json:"postcode,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a customer to its response form
func ToCustomerResponse(customer *party.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          customer.ID,
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		Name:        customer.Name(),
		AccountType: customer.AccountType.String(),
		Phone:       customer.Phone,
		Email:       customer.Email,
		Address:     customer.Address,
		Suburb:      customer.Suburb,
		Postcode:    customer.Postcode,
		Notes:       customer.Notes,
		Active:      customer.Active,
		CreatedAt:   customer.CreatedAt,
		UpdatedAt:   customer.UpdatedAt,
	}
}
