package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/avdmitry-dev/go-task-api/internal/repository"
)

const emailTakenFormat = "User with email %s already exists"

type userServiceImpl struct {
	logger zerolog.Logger
	users  UserStore
}

func NewUserService(
	logger zerolog.Logger,
	users UserStore,
) UserService {
	return &userServiceImpl{
		logger: logger,
		users:  users,
	}
}

func (s *userServiceImpl) CreateUser(ctx context.Context, name, email string) (*UserDTO, error) {
	err := s.users.EnsureEmailNotTaken(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			s.logger.Warn().
				Str("email", email).
				Msg("user with this email already exists")
			return nil, newConflictFault(emailTakenFormat, email)
		}

		s.logger.Error().
			Err(err).
			Msg("failed to check email uniqueness")
		return nil, newInternalFault()
	}

	user, err := s.users.Insert(ctx, nil, name, email)
	if err != nil {
		// Two concurrent creations can both pass the advisory check;
		// the unique constraint still surfaces the loser as a conflict.
		if errors.Is(err, repository.ErrEmailTaken) {
			s.logger.Warn().
				Str("email", email).
				Msg("user with this email already exists")
			return nil, newConflictFault(emailTakenFormat, email)
		}

		s.logger.Error().
			Err(err).
			Msg("failed to create user")
		return nil, newInternalFault()
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("name", user.Name).
		Str("email", user.Email).
		Msg("created user")
	return &UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}
