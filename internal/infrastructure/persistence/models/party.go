package models

import (
	"github.com/vetdesk/backend/internal/domain/party"
)

// CustomerModel is the GORM model for customers
type CustomerModel struct {
	AggregateModel
	FirstName   string `gorm:"column:first_name;not null"`
	LastName    string `gorm:"column:last_name;not null"`
	AccountType string `gorm:"column:account_type;not null;default:'CASH'"`
	Phone       string `gorm:"column:phone"`
	Email       string `gorm:"column:email"`
	Address     string `gorm:"column:address"`
	Suburb      string `gorm:"column:suburb"`
	Postcode    string `gorm:"column:postcode"`
	Notes       string `gorm:"column:notes;type:text"`
	Active      bool   `gorm:"column:active;not null;default:true;index"`
}

// TableName specifies the table name for CustomerModel
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts CustomerModel to domain Customer
func (m *CustomerModel) ToDomain() *party.Customer {
	return &party.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		AccountType:       party.AccountType(m.AccountType),
		Phone:             m.Phone,
		Email:             m.Email,
		Address:           m.Address,
		Suburb:            m.Suburb,
		Postcode:          m.Postcode,
		Notes:             m.Notes,
		Active:            m.Active,
	}
}

// CustomerModelFromDomain creates CustomerModel from domain Customer
func CustomerModelFromDomain(c *party.Customer) *CustomerModel {
	model := &CustomerModel{
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		AccountType: c.AccountType.String(),
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		Suburb:      c.Suburb,
		Postcode:    c.Postcode,
		Notes:       c.Notes,
		Active:      c.Active,
	}
	model.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return model
}

// UserModel is the GORM model for users
type UserModel struct {
	AggregateModel
	Username     string `gorm:"column:username;not null;uniqueIndex"`
	Name         string `gorm:"column:name;not null"`
	Role         string `gorm:"column:role;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Active       bool   `gorm:"column:active;not null;default:true"`
}

// TableName specifies the table name for UserModel
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to domain User
func (m *UserModel) ToDomain() *party.User {
	return &party.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Username:          m.Username,
		Name:              m.Name,
		Role:              party.UserRole(m.Role),
		PasswordHash:      m.PasswordHash,
		Active:            m.Active,
	}
}

// UserModelFromDomain creates UserModel from domain User
func UserModelFromDomain(u *party.User) *UserModel {
	model := &UserModel{
		Username:     u.Username,
		Name:         u.Name,
		Role:         u.Role.String(),
		PasswordHash: u.PasswordHash,
		Active:       u.Active,
	}
	model.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return model
}
