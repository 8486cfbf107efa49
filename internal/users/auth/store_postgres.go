// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/clipstream/internal/platform/database/schema"
	"github.com/taibuivan/clipstream/internal/platform/dberr"
	"github.com/taibuivan/clipstream/pkg/uuid"
)

// querier is the subset of [pgxpool.Pool] used by the repository.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// # Account Repository

// PostgresUserRepository implements [CredentialStore] on the users.account table.
type PostgresUserRepository struct {
	pool querier
	now  func() time.Time
}

// NewUserRepository creates a new PostgreSQL implementation of the CredentialStore.
func NewUserRepository(pool querier) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool, now: time.Now}
}

var (
	accountTable = schema.UserAccount

	selectAccountByLogin = fmt.Sprintf(
		"SELECT %s FROM %s WHERE (%s = $1 OR %s = $1) AND %s IS NULL LIMIT 1",
		accountTable.SelectList(), accountTable.Table,
		accountTable.Username, accountTable.Email, accountTable.DeletedAt,
	)

	selectAccountByID = fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL",
		accountTable.SelectList(), accountTable.Table, accountTable.ID, accountTable.DeletedAt,
	)

	insertAccount = fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		accountTable.Table, accountTable.SelectList(),
	)

	setRefreshToken = fmt.Sprintf(
		"UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s IS NULL",
		accountTable.Table, accountTable.RefreshTokenHash, accountTable.UpdatedAt,
		accountTable.ID, accountTable.DeletedAt,
	)

	compareAndSetRefreshToken = fmt.Sprintf(
		"UPDATE %s SET %s = $3, %s = $4 WHERE %s = $1 AND %s = $2 AND %s IS NULL",
		accountTable.Table, accountTable.RefreshTokenHash, accountTable.UpdatedAt,
		accountTable.ID, accountTable.RefreshTokenHash, accountTable.DeletedAt,
	)

	clearRefreshToken = fmt.Sprintf(
		"UPDATE %s SET %s = NULL, %s = $2 WHERE %s = $1 AND %s IS NOT NULL",
		accountTable.Table, accountTable.RefreshTokenHash, accountTable.UpdatedAt,
		accountTable.ID, accountTable.RefreshTokenHash,
	)
)

/*
FindByLogin retrieves an account by its username or email.

Description: Usernames cannot contain '@', so a normalized login matches at
most one live row.

Parameters:
  - context: context.Context
  - login: string

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByLogin(context context.Context, login string) (*User, error) {
	user, err := scanUser(repository.pool.QueryRow(context, selectAccountByLogin, login))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_login_failed")
	}
	return user, nil
}

/*
FindByID retrieves an account by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {

	// A malformed ID cannot match a UUID primary key.
	if !uuid.IsValid(id) {
		return nil, dberr.ErrNotFound
	}

	user, err := scanUser(repository.pool.QueryRow(context, selectAccountByID, id))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_id_failed")
	}
	return user, nil
}

/*
Create persists a new account into the users.account table.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: dberr.ErrDuplicate or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	now := repository.now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, insertAccount,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.AvatarURL,
		user.CoverImageURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_create_failed")
	}

	return nil
}

// # Refresh Token Slot

/*
SetRefreshToken overwrites the refresh-token digest of an account.

Parameters:
  - context: context.Context
  - accountID: string
  - digest: string

Returns:
  - error: dberr.ErrNotFound if no live account matched, or database errors
*/
func (repository *PostgresUserRepository) SetRefreshToken(context context.Context, accountID, digest string) error {
	if !uuid.IsValid(accountID) {
		return dberr.ErrNotFound
	}

	tag, err := repository.pool.Exec(context, setRefreshToken, accountID, digest, repository.now().UTC())
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_set_refresh_token_failed")
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
CompareAndSetRefreshToken rotates the digest in a single conditional UPDATE.

Description: The row lock taken by UPDATE serializes concurrent rotations, so
of two callers presenting the same digest only the first sees a matching row.

Parameters:
  - context: context.Context
  - accountID: string
  - expected: string
  - next: string

Returns:
  - bool: true if exactly one row was updated
  - error: Database errors
*/
func (repository *PostgresUserRepository) CompareAndSetRefreshToken(context context.Context, accountID, expected, next string) (bool, error) {
	if !uuid.IsValid(accountID) || expected == "" {
		return false, nil
	}

	tag, err := repository.pool.Exec(context, compareAndSetRefreshToken, accountID, expected, next, repository.now().UTC())
	if err != nil {
		return false, dberr.Wrap(err, "postgres_user_repo_cas_refresh_token_failed")
	}

	return tag.RowsAffected() == 1, nil
}

/*
ClearRefreshToken sets the digest to NULL.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Database errors
*/
func (repository *PostgresUserRepository) ClearRefreshToken(context context.Context, accountID string) error {
	if !uuid.IsValid(accountID) {
		return nil
	}

	if _, err := repository.pool.Exec(context, clearRefreshToken, accountID, repository.now().UTC()); err != nil {
		return dberr.Wrap(err, "postgres_user_repo_clear_refresh_token_failed")
	}

	return nil
}

// scanUser hydrates a [User] in [schema.UserAccountTable.Columns] order.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
