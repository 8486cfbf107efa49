// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered account identifiers.

It wraps google/uuid to generate Version 7 values, which sort by creation
time and keep the users.account primary key index compact.
*/
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// New generates a new UUIDv7 string.
func New() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("uuid: failed to generate v7: %w", err)
	}
	return id.String(), nil
}

// IsValid reports whether s parses as a UUID of any version.
func IsValid(s string) bool {
	return uuid.Validate(s) == nil
}
