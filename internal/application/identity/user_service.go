package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/party"
	"github.com/vetdesk/backend/internal/domain/shared"
)

// UserService manages staff accounts
type UserService struct {
	users  party.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users party.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// CreateUser creates a new staff account
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*UserInfo, error) {
	if existing, err := s.users.FindByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already in use")
	}

	user, err := party.NewUser(input.Username, input.Name, input.Password, party.UserRole(input.Role))
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Staff account created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()))

	info := toUserInfo(user)
	return &info, nil
}

// GetUser retrieves a staff account by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

// ListUsers lists staff accounts
func (s *UserService) ListUsers(ctx context.Context, filter shared.Filter) ([]UserInfo, error) {
	users, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	infos := make([]UserInfo, len(users))
	for i := range users {
		infos[i] = toUserInfo(&users[i])
	}
	return infos, nil
}

// UpdateUser updates a staff account's name or role
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		role := party.UserRole(*input.Role)
		if !role.IsValid() {
			return nil, shared.NewDomainError("INVALID_USER", "Unknown role: "+*input.Role)
		}
		user.Role = role
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	info := toUserInfo(user)
	return &info, nil
}

// DeactivateUser disables a staff account
func (s *UserService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.Deactivate()
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("Staff account deactivated", zap.String("user_id", id.String()))
	return nil
}
