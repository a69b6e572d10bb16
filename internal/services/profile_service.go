package services

import (
	"context"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/repository/sqlite"
	"taskflow/internal/validation"
)

type profileServiceImpl struct {
	repo      sqlite.Repository
	mapper    *domain.Mapper
	validator *validation.ProfileValidator
	now       func() time.Time
}

// NewProfileService creates a new ProfileService instance. cfg may be nil for defaults.
func NewProfileService(repo sqlite.Repository, cfg *config.Config) ProfileService {
	validator := validation.NewProfileValidator()
	if cfg != nil {
		validator = validation.NewProfileValidatorWithConfig(cfg)
	}
	return &profileServiceImpl{
		repo:      repo,
		mapper:    domain.NewMapper(),
		validator: validator,
		now:       utcNow,
	}
}

func userNotFound(id string) *errors.AppError {
	err := errors.NewNotFoundError("User", id)
	err.Message = "User not found"
	return err
}

func (p *profileServiceImpl) GetProfile(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	dbUser, err := p.repo.GetUser(ctx, caller.UserID)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, userNotFound(caller.UserID)
		}
		return nil, err
	}

	user := p.mapper.User.FromDatabase(*dbUser)
	return &user, nil
}

// UpdateProfile merges patch into the caller's profile. Taking an email
// that belongs to another account is a conflict.
func (p *profileServiceImpl) UpdateProfile(ctx context.Context, caller domain.Caller, patch domain.ProfilePatch) (*domain.User, error) {
	if err := p.validator.ValidateProfilePatch(patch); err != nil {
		return nil, errors.NewValidationError("invalid profile", err)
	}

	dbUser, err := p.repo.GetUser(ctx, caller.UserID)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, userNotFound(caller.UserID)
		}
		return nil, err
	}

	user := p.mapper.User.FromDatabase(*dbUser)
	user.Apply(patch, p.now())

	updated := p.mapper.User.ToDatabase(user, dbUser.PasswordHash)
	if err := p.repo.UpdateUser(ctx, &updated); err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, userNotFound(caller.UserID)
		}
		return nil, err
	}

	return &user, nil
}
