package party

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vetdesk/backend/internal/domain/shared"
)

// UserRole represents a staff member's role
type UserRole string

const (
	UserRoleVet          UserRole = "VET"
	UserRoleNurse        UserRole = "NURSE"
	UserRoleReceptionist UserRole = "RECEPTIONIST"
	UserRoleAdmin        UserRole = "ADMIN"
)

// IsValid checks if the role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleVet, UserRoleNurse, UserRoleReceptionist, UserRoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of UserRole
func (r UserRole) String() string {
	return string(r)
}

// User is a staff member who can be rostered, assigned to appointments and
// authenticated against the API.
type User struct {
	shared.BaseAggregateRoot
	Username     string
	Name         string
	Role         UserRole
	PasswordHash string
	Active       bool
}

// NewUser creates a staff user with a bcrypt-hashed password
func NewUser(username, name, password string, role UserRole) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USER", "Username cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER", "Unknown role: "+role.String())
	}
	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Name:              strings.TrimSpace(name),
		Role:              role,
		Active:            true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// CheckPassword verifies a password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now()
}
