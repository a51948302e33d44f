package service

import (
	"context"
	"fmt"

	"veggie-kart/internal/model"
	"veggie-kart/internal/repository"

	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		users:  users,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// Profile returns the account of the session holder.
func (s *userService) Profile(ctx context.Context, session *model.Session) (*model.User, error) {
	if session == nil {
		return nil, model.ErrNotAuthenticated
	}

	user, err := s.users.FindByPhone(ctx, session.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if user == nil {
		return nil, model.ErrAccountNotFound
	}

	return user, nil
}
