// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, JWT signing)
// from the domain logic. It is injected into the auth service through the
// [auth.TokenProvider] interface.
//
// # Token Kinds
//
// Access and refresh tokens are signed with two distinct HMAC secrets and carry
// a kind claim. A token of one kind never verifies as the other.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for every token that fails verification.
var ErrInvalidToken = errors.New("sec: invalid token")

// TokenKind distinguishes the two token families.
type TokenKind string

const (
	// AccessToken is the short-lived token presented on every request.
	AccessToken TokenKind = "access"

	// RefreshToken is the long-lived token exchanged for a new pair.
	RefreshToken TokenKind = "refresh"
)

// SessionClaims represents the payload embedded inside every issued token.
//
// The subject is the account ID. The ID (jti) claim is random so that two
// tokens minted for the same account within the same second still differ.
type SessionClaims struct {
	jwt.RegisteredClaims

	Kind TokenKind `json:"knd"`
}

// TokenConfig holds the secrets and lifetimes of both token kinds.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// TokenService handles generation and verification of HS256 JWT tokens.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

// Option customizes a [TokenService].
type Option func(*TokenService)

// WithClock replaces the wall clock used for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(service *TokenService) {
		service.now = now
	}
}

// NewTokenService creates a new TokenService.
//
// It refuses empty or identical secrets and non-positive lifetimes.
func NewTokenService(config TokenConfig, options ...Option) (*TokenService, error) {
	if config.AccessSecret == "" || config.RefreshSecret == "" {
		return nil, errors.New("sec: access and refresh secrets are required")
	}

	if config.AccessSecret == config.RefreshSecret {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}

	if config.AccessTTL <= 0 || config.RefreshTTL <= 0 {
		return nil, errors.New("sec: token lifetimes must be positive")
	}

	service := &TokenService{
		accessSecret:  []byte(config.AccessSecret),
		refreshSecret: []byte(config.RefreshSecret),
		accessTTL:     config.AccessTTL,
		refreshTTL:    config.RefreshTTL,
		issuer:        config.Issuer,
		now:           time.Now,
	}

	for _, option := range options {
		option(service)
	}

	return service, nil
}

// TTL returns the configured lifetime for the given kind.
func (service *TokenService) TTL(kind TokenKind) time.Duration {
	if kind == RefreshToken {
		return service.refreshTTL
	}
	return service.accessTTL
}

/*
Issue mints a signed token of the given kind for an account.

Parameters:
  - subject: string (account ID)
  - kind: TokenKind

Returns:
  - string: The compact JWT
  - time.Time: The expiry embedded in the token
  - error: Unknown kind or signing failure
*/
func (service *TokenService) Issue(subject string, kind TokenKind) (string, time.Time, error) {
	secret, err := service.secretFor(kind)
	if err != nil {
		return "", time.Time{}, err
	}

	if subject == "" {
		return "", time.Time{}, errors.New("sec: token subject is required")
	}

	issuedAt := jwt.NewNumericDate(service.now())
	expiresAt := jwt.NewNumericDate(issuedAt.Add(service.TTL(kind)))

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    service.issuer,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
		Kind: kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, expiresAt.Time, nil
}

/*
Verify checks the signature, expiry and kind of a token.

A token is rejected once the clock reaches its expiry. Every failure wraps
[ErrInvalidToken]; malformed input never panics.

Parameters:
  - tokenString: string
  - kind: TokenKind

Returns:
  - string: The account ID carried in the subject claim
  - error: ErrInvalidToken on any failure
*/
func (service *TokenService) Verify(tokenString string, kind TokenKind) (string, error) {
	secret, err := service.secretFor(kind)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(service.now),
	}
	if service.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(service.issuer))
	}

	claims := &SessionClaims{}
	token, err := jwt.NewParser(parserOptions...).ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	switch {
	case !token.Valid:
		return "", ErrInvalidToken
	case claims.Kind != kind:
		return "", fmt.Errorf("%w: unexpected token kind %q", ErrInvalidToken, claims.Kind)
	case claims.Subject == "":
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	case claims.IssuedAt == nil:
		return "", fmt.Errorf("%w: missing issued-at", ErrInvalidToken)
	}

	return claims.Subject, nil
}

// secretFor resolves the signing key of a token kind.
func (service *TokenService) secretFor(kind TokenKind) ([]byte, error) {
	switch kind {
	case AccessToken:
		return service.accessSecret, nil
	case RefreshToken:
		return service.refreshSecret, nil
	default:
		return nil, fmt.Errorf("sec: unknown token kind %q", kind)
	}
}
