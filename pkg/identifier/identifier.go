// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package identifier canonicalizes login identifiers (usernames and emails).
//
// # Usage
//
// Both registration and login pass user input through [Normalize] so that
// "Ada@Example.COM", "ada@example.com" and their full-width Unicode variants
// resolve to the same account.
package identifier

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the canonical form of a username or email.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Normalizes to NFKC (folds compatibility forms: ｆｕｌｌ → full).
// 3. Lowercases with language-neutral rules.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	chain := transform.Chain(norm.NFKC, cases.Lower(language.Und))
	result, _, err := transform.String(chain, trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}

	return result
}
