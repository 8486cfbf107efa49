// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/clipstream/internal/platform/apperr"
	"github.com/taibuivan/clipstream/internal/platform/ctxutil"
	"github.com/taibuivan/clipstream/internal/platform/dberr"
	"github.com/taibuivan/clipstream/internal/platform/sec"
	"github.com/taibuivan/clipstream/internal/platform/validate"
	"github.com/taibuivan/clipstream/pkg/identifier"
	"github.com/taibuivan/clipstream/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for minting and checking session tokens.
// It is implemented by [sec.TokenService].
type TokenProvider interface {
	Issue(subject string, kind sec.TokenKind) (string, time.Time, error)
	Verify(token string, kind sec.TokenKind) (string, error)
	TTL(kind sec.TokenKind) time.Duration
}

// AuthObserver receives one event per auth operation outcome.
type AuthObserver interface {
	ObserveAuth(operation, outcome string)
}

type noopObserver struct{}

func (noopObserver) ObserveAuth(string, string) {}

// Service implements account authentication use cases.
type Service struct {
	store    CredentialStore
	tokens   TokenProvider
	observer AuthObserver
}

// ServiceOption customizes a [Service].
type ServiceOption func(*Service)

// WithObserver reports operation outcomes to observer.
func WithObserver(observer AuthObserver) ServiceOption {
	return func(service *Service) {
		if observer != nil {
			service.observer = observer
		}
	}
}

// NewService constructs a new [Service] with its storage and token dependencies.
func NewService(store CredentialStore, tokens TokenProvider, options ...ServiceOption) *Service {
	service := &Service{
		store:    store,
		tokens:   tokens,
		observer: noopObserver{},
	}

	for _, option := range options {
		option(service)
	}

	return service
}

// LoginSession represents a freshly issued token pair.
type LoginSession struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	AccessTokenTTL        time.Duration
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *sec.Identity
}

// # Registration Flow

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	Username      string
	Email         string
	FullName      string
	Password      string
	AvatarURL     string
	CoverImageURL string
}

/*
Register validates, hashes, and persists a new account.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *sec.Identity: The created account, redacted
  - error: ValidationError, Conflict or Internal
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*sec.Identity, error) {
	username := identifier.Normalize(input.Username)
	email := identifier.Normalize(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MinLen(FieldUsername, username, MinUsernameLength).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Handle(FieldUsername, username).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldFullName, input.FullName).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > MaxPasswordLength, fmt.Sprintf("Maximum %d bytes", MaxPasswordLength))

	if err := validator.Err(); err != nil {
		service.observer.ObserveAuth(OperationRegister, OutcomeRejected)
		return nil, err
	}

	for _, probe := range []struct {
		value   string
		message string
	}{
		{username, "Username is already taken"},
		{email, "Email is already registered"},
	} {
		_, err := service.store.FindByLogin(context, probe.value)
		switch {
		case err == nil:
			service.observer.ObserveAuth(OperationRegister, OutcomeRejected)
			return nil, apperr.Conflict(probe.message)
		case !errors.Is(err, dberr.ErrNotFound):
			service.observer.ObserveAuth(OperationRegister, OutcomeError)
			return nil, apperr.Internal(fmt.Errorf("auth_service_register_lookup_failed: %w", err))
		}
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		service.observer.ObserveAuth(OperationRegister, OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	id, err := uuid.New()
	if err != nil {
		service.observer.ObserveAuth(OperationRegister, OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("auth_service_id_failed: %w", err))
	}

	user := &User{
		ID:            id,
		Username:      username,
		Email:         email,
		PasswordHash:  hashedPassword,
		FullName:      input.FullName,
		AvatarURL:     input.AvatarURL,
		CoverImageURL: input.CoverImageURL,
	}

	if err := service.store.Create(context, user); err != nil {
		// A concurrent registration can still win the unique index.
		if errors.Is(err, dberr.ErrDuplicate) {
			service.observer.ObserveAuth(OperationRegister, OutcomeRejected)
			return nil, apperr.Conflict("Username or email is already registered")
		}
		service.observer.ObserveAuth(OperationRegister, OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("auth_service_register_failed: %w", err))
	}

	service.observer.ObserveAuth(OperationRegister, OutcomeSuccess)
	ctxutil.GetLogger(context).InfoContext(context, "account_registered", slog.String("account_id", user.ID))

	return user.Identity(), nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Username or email
	Password string
}

/*
Login validates credentials and issues a new token pair.

Description: The refresh token digest overwrites whatever the account held, so
a login invalidates every earlier refresh token. Tokens are only returned once
that write has succeeded.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Token pair and account view
  - error: ValidationError, NotFound, Unauthorized or Internal
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	login := identifier.Normalize(input.Login)

	validator := &validate.Validator{}
	validator.Required(FieldLogin, login).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		service.observer.ObserveAuth(OperationLogin, OutcomeRejected)
		return nil, err
	}

	user, err := service.store.FindByLogin(context, login)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			service.observer.ObserveAuth(OperationLogin, OutcomeRejected)
			return nil, apperr.NotFound("Account")
		}
		service.observer.ObserveAuth(OperationLogin, OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("auth_service_login_lookup_failed: %w", err))
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.observer.ObserveAuth(OperationLogin, OutcomeRejected)
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	session, err := service.issuePair(user)
	if err != nil {
		service.observer.ObserveAuth(OperationLogin, OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("auth_service_login_token_failed: %w", err))
	}

	if err := service.store.SetRefreshToken(context, user.ID, sec.HashToken(session.RefreshToken)); err != nil {
		service.observer.ObserveAuth(OperationLogin, OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("auth_service_login_persist_failed: %w", err))
	}

	service.observer.ObserveAuth(OperationLogin, OutcomeSuccess)
	ctxutil.GetLogger(context).InfoContext(context, "login_succeeded", slog.String("account_id", user.ID))

	return session, nil
}

// # Session Management

/*
RefreshSession exchanges a refresh token for a new pair.

Description: The presented token must verify and must equal the one currently
stored. The new digest replaces the old one through a single compare-and-set,
so when several callers race with the same token exactly one wins.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *LoginSession: Rotated token pair
  - error: Unauthorized or Internal
*/
func (service *Service) RefreshSession(context context.Context, refreshToken string) (*LoginSession, error) {
	if refreshToken == "" {
		service.observer.ObserveAuth(OperationRefresh, OutcomeRejected)
		return nil, apperr.Unauthorized("Unauthorized")
	}

	accountID, err := service.tokens.Verify(refreshToken, sec.RefreshToken)
	if err != nil {
		service.observer.ObserveAuth(OperationRefresh, OutcomeRejected)
		return nil, apperr.Unauthorized("Unauthorized")
	}

	user, err := service.store.FindByID(context, accountID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			service.observer.ObserveAuth(OperationRefresh, OutcomeRejected)
			return nil, apperr.Unauthorized("Unauthorized")
		}
		service.observer.ObserveAuth(OperationRefresh, OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("auth_service_refresh_lookup_failed: %w", err))
	}

	session, err := service.issuePair(user)
	if err != nil {
		service.observer.ObserveAuth(OperationRefresh, OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("auth_service_refresh_token_failed: %w", err))
	}

	swapped, err := service.store.CompareAndSetRefreshToken(
		context,
		user.ID,
		sec.HashToken(refreshToken),
		sec.HashToken(session.RefreshToken),
	)
	if err != nil {
		service.observer.ObserveAuth(OperationRefresh, OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("auth_service_refresh_rotate_failed: %w", err))
	}

	// A verified token that no longer matches storage was rotated, superseded or logged out.
	if !swapped {
		service.observer.ObserveAuth(OperationRefresh, OutcomeReuse)
		ctxutil.GetLogger(context).WarnContext(context, "refresh_token_reuse_detected", slog.String("account_id", user.ID))
		return nil, apperr.Unauthorized("Unauthorized")
	}

	service.observer.ObserveAuth(OperationRefresh, OutcomeSuccess)

	return session, nil
}

/*
Authenticate resolves an access token into the account it was issued for.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - *sec.Identity: The redacted account
  - error: Unauthorized or Internal
*/
func (service *Service) Authenticate(context context.Context, accessToken string) (*sec.Identity, error) {
	accountID, err := service.tokens.Verify(accessToken, sec.AccessToken)
	if err != nil {
		service.observer.ObserveAuth(OperationAuthenticate, OutcomeRejected)
		return nil, apperr.Unauthorized("Unauthorized")
	}

	user, err := service.store.FindByID(context, accountID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			service.observer.ObserveAuth(OperationAuthenticate, OutcomeRejected)
			return nil, apperr.Unauthorized("Unauthorized")
		}
		service.observer.ObserveAuth(OperationAuthenticate, OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("auth_service_authenticate_lookup_failed: %w", err))
	}

	service.observer.ObserveAuth(OperationAuthenticate, OutcomeSuccess)

	return user.Identity(), nil
}

/*
Logout clears the stored refresh token of an account.

Description: Idempotent. An empty slot or an account that vanished
mid-request is treated as already logged out.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Internal on storage failure
*/
func (service *Service) Logout(context context.Context, accountID string) error {
	if err := service.store.ClearRefreshToken(context, accountID); err != nil && !errors.Is(err, dberr.ErrNotFound) {
		service.observer.ObserveAuth(OperationLogout, OutcomeError)
		return apperr.Internal(fmt.Errorf("auth_service_logout_failed: %w", err))
	}

	service.observer.ObserveAuth(OperationLogout, OutcomeSuccess)
	ctxutil.GetLogger(context).InfoContext(context, "logout_succeeded", slog.String("account_id", accountID))

	return nil
}

// issuePair mints an access and a refresh token for user.
func (service *Service) issuePair(user *User) (*LoginSession, error) {
	accessToken, accessExpiresAt, err := service.tokens.Issue(user.ID, sec.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := service.tokens.Issue(user.ID, sec.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		AccessTokenTTL:        service.tokens.TTL(sec.AccessToken),
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
		User:                  user.Identity(),
	}, nil
}
