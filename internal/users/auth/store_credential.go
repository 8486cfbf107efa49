// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// credentialStore routes account lookups and refresh-token slot operations to
// separate backends.
type credentialStore struct {
	AccountRepository
	RefreshTokenRepository
}

// NewCredentialStore combines an account repository with a refresh-token slot.
//
// With Postgres alone, pass the same [PostgresUserRepository] twice. With the
// Redis slot, pass the Postgres repository and a [RedisRefreshTokenRepository].
func NewCredentialStore(accounts AccountRepository, tokens RefreshTokenRepository) CredentialStore {
	return &credentialStore{
		AccountRepository:      accounts,
		RefreshTokenRepository: tokens,
	}
}
