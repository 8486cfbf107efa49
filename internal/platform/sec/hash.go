// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using bcrypt at the default cost.
func HashPassword(plainTextPassword string) (string, error) {
	return HashPasswordCost(plainTextPassword, bcrypt.DefaultCost)
}

// HashPasswordCost hashes a plain-text password with an explicit bcrypt cost.
func HashPasswordCost(plainTextPassword string, cost int) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash reports whether the plain-text password matches the stored hash.
//
// The comparison runs in constant time with respect to the password. Empty or
// malformed hashes never match.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	if existingHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
