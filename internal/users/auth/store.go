// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
)

// # Account Data Access

// AccountRepository defines the data access contract for user accounts.
type AccountRepository interface {

	/*
		FindByLogin returns the account whose username or email equals login.

		Parameters:
		  - context: context.Context
		  - login: string (normalized username or email)

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or storage failures
	*/
	FindByLogin(context context.Context, login string) (*User, error)

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: dberr.ErrDuplicate on a username or email collision, or storage failures
	*/
	Create(context context.Context, user *User) error
}

// # Refresh Token Data Access

// RefreshTokenRepository defines the contract for the single refresh-token slot
// of an account. Every value passed in is a digest produced by [sec.HashToken].
type RefreshTokenRepository interface {

	/*
		SetRefreshToken overwrites the slot unconditionally.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - digest: string

		Returns:
		  - error: dberr.ErrNotFound if the account is gone, or storage failures
	*/
	SetRefreshToken(context context.Context, accountID, digest string) error

	/*
		CompareAndSetRefreshToken replaces the slot with next only if it
		currently holds expected. The check and the write are one atomic step.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - expected: string
		  - next: string

		Returns:
		  - bool: true if the slot was replaced
		  - error: Storage failures
	*/
	CompareAndSetRefreshToken(context context.Context, accountID, expected, next string) (bool, error)

	/*
		ClearRefreshToken empties the slot. Clearing an empty slot or an unknown
		account succeeds.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - error: Storage failures
	*/
	ClearRefreshToken(context context.Context, accountID string) error
}

// # Credential Store

// CredentialStore is everything the auth service needs from storage.
type CredentialStore interface {
	AccountRepository
	RefreshTokenRepository
}
