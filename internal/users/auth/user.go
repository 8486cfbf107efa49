// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account authentication and the session-token lifecycle.

It covers registration, login, refresh-token rotation, per-request access-token
authentication and logout.

# Architecture

  - Service: Orchestrates the use cases (Register, Login, RefreshSession, Authenticate, Logout).
  - Repository: Postgres holds accounts; the refresh-token slot lives in Postgres or Redis.
  - Security: bcrypt password hashes and HS256 JWTs from [sec].

# Session Model

An account holds at most one refresh token at a time. Login overwrites it,
refresh rotates it with a single compare-and-set, and logout clears it. Only
the SHA-256 digest of the token is ever stored. Access tokens are not stored.
*/
package auth

import (
	"time"

	"github.com/taibuivan/clipstream/internal/platform/sec"
)

// # Domain Entities

// User represents a registered Clipstream account.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Identity returns the redacted view of the account.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		FullName:      user.FullName,
		AvatarURL:     user.AvatarURL,
		CoverImageURL: user.CoverImageURL,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// # Field Identifiers

// Field names used in validation errors and response payloads.
const (
	FieldUsername      = "username"
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldFullName      = "full_name"
	FieldAvatarURL     = "avatar_url"
	FieldCoverImageURL = "cover_image_url"
	FieldLogin         = "login"
	FieldAccessToken   = "access_token"
	FieldRefreshToken  = "refresh_token"
	FieldTokenType     = "token_type"
	FieldExpiresIn     = "expires_in"
	FieldUser          = "user"
	FieldMessage       = "message"
)

// # Auth Metric Labels

// Operation and outcome labels reported to the [AuthObserver].
const (
	OperationRegister     = "register"
	OperationLogin        = "login"
	OperationRefresh      = "refresh"
	OperationAuthenticate = "authenticate"
	OperationLogout       = "logout"

	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeReuse    = "reuse"
	OutcomeError    = "error"
)

// # Input Constraints

const (
	// MinPasswordLength is the shortest password accepted at registration.
	MinPasswordLength = 8

	// MinUsernameLength is the shortest username accepted at registration.
	MinUsernameLength = 3

	// MaxUsernameLength is the longest username accepted at registration.
	MaxUsernameLength = 32

	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)
