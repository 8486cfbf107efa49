// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level storage errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/clipstream/internal/platform/apperr"
)

// uniqueViolation is the Postgres SQLSTATE for unique-constraint failures.
const uniqueViolation = "23505"

var (
	// ErrNotFound is a standard error returned when a queried row or key doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")

	// ErrDuplicate is returned when an insert collides with a unique constraint.
	ErrDuplicate = apperr.Conflict("Resource already exists")
)

// Wrap inspects a storage error and wraps it into a meaningful [apperr.AppError].
// It hides internal storage details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping (Postgres rows and Redis keys)
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, redis.Nil) {
		return ErrNotFound
	}

	// 2. Unique constraint violations
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
