package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/auth"
	"taskflow/internal/config"
	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/repository/sqlite"
	"taskflow/internal/validation"
)

// Authentication failure messages sent to clients
const (
	MsgNoToken            = "Not authorized, no token"
	MsgTokenFailed        = "Not authorized, token failed"
	MsgTokenExpired       = "Not authorized, token expired"
	MsgTokenRevoked       = "Not authorized, token revoked"
	MsgUserGone           = "Not authorized, user not found"
	MsgInvalidCredentials = "Invalid email or password"
)

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	repo        sqlite.Repository
	tokens      *auth.TokenManager
	hasher      *auth.PasswordHasher
	revocations auth.RevocationStore
	mapper      *domain.Mapper
	validator   *validation.ProfileValidator
	now         func() time.Time
}

// NewAuthService creates a new AuthService instance. cfg may be nil for default validation limits.
func NewAuthService(repo sqlite.Repository, tokens *auth.TokenManager, hasher *auth.PasswordHasher, revocations auth.RevocationStore, cfg *config.Config) AuthService {
	validator := validation.NewProfileValidator()
	if cfg != nil {
		validator = validation.NewProfileValidatorWithConfig(cfg)
	}
	return &authServiceImpl{
		repo:        repo,
		tokens:      tokens,
		hasher:      hasher,
		revocations: revocations,
		mapper:      domain.NewMapper(),
		validator:   validator,
		now:         utcNow,
	}
}

// Authenticate fails if the header is missing or malformed, the token does
// not verify or has expired, it was revoked, or its user no longer exists.
func (a *authServiceImpl) Authenticate(ctx context.Context, header string) (domain.Caller, error) {
	token, err := auth.ParseBearer(header)
	if err != nil {
		if stderrors.Is(err, auth.ErrMissingCredential) {
			return domain.Caller{}, errors.NewAuthenticationError(MsgNoToken, err)
		}
		return domain.Caller{}, errors.NewAuthenticationError(MsgTokenFailed, err)
	}

	claims, err := a.tokens.Validate(token)
	if err != nil {
		if stderrors.Is(err, auth.ErrExpiredToken) {
			return domain.Caller{}, errors.NewAuthenticationError(MsgTokenExpired, err)
		}
		return domain.Caller{}, errors.NewAuthenticationError(MsgTokenFailed, err)
	}

	revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.Caller{}, errors.NewDatabaseError("check token revocation", err)
	}
	if revoked {
		return domain.Caller{}, errors.NewAuthenticationError(MsgTokenRevoked, nil)
	}

	user, err := a.repo.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return domain.Caller{}, errors.NewAuthenticationError(MsgUserGone, nil)
		}
		return domain.Caller{}, err
	}

	return domain.Caller{
		UserID:    user.ID,
		Email:     user.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Register creates an account and opens a session for it
func (a *authServiceImpl) Register(ctx context.Context, input domain.Registration) (*domain.Session, error) {
	if err := a.validator.ValidateRegistration(input); err != nil {
		return nil, errors.NewValidationError("invalid registration", err)
	}

	hash, err := a.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := a.now()
	user := domain.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Email:     domain.NormalizeEmail(input.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	dbUser := a.mapper.User.ToDatabase(user, hash)
	if err := a.repo.CreateUser(ctx, &dbUser); err != nil {
		return nil, err
	}

	return a.openSession(user)
}

// Login checks credentials and opens a session. Unknown email and wrong
// password fail the same way.
func (a *authServiceImpl) Login(ctx context.Context, credentials domain.Credentials) (*domain.Session, error) {
	if err := a.validator.ValidateCredentials(credentials); err != nil {
		return nil, errors.NewValidationError("invalid credentials", err)
	}

	dbUser, err := a.repo.GetUserByEmail(ctx, domain.NormalizeEmail(credentials.Email))
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, errors.NewAuthenticationError(MsgInvalidCredentials, nil)
		}
		return nil, err
	}

	if !a.hasher.Verify(credentials.Password, dbUser.PasswordHash) {
		return nil, errors.NewAuthenticationError(MsgInvalidCredentials, nil)
	}

	return a.openSession(a.mapper.User.FromDatabase(*dbUser))
}

// Logout revokes the caller's token until it expires
func (a *authServiceImpl) Logout(ctx context.Context, caller domain.Caller) error {
	if caller.TokenID == "" {
		return errors.NewAuthenticationError(MsgTokenFailed, nil)
	}
	if err := a.revocations.Revoke(ctx, caller.TokenID, caller.ExpiresAt); err != nil {
		return errors.NewDatabaseError("revoke token", err)
	}
	return nil
}

func (a *authServiceImpl) openSession(user domain.User) (*domain.Session, error) {
	token, _, err := a.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &domain.Session{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	}, nil
}
