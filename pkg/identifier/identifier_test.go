// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/clipstream/pkg/identifier"
)

/*
TestNormalize maps case and compatibility variants onto one canonical form.
*/
func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already_canonical", "ada", "ada"},
		{"uppercase", "ADA", "ada"},
		{"surrounding_space", "  ada  ", "ada"},
		{"email_mixed_case", "Ada@Example.COM", "ada@example.com"},
		{"fullwidth", "ａｄａ", "ada"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identifier.Normalize(tt.raw))
		})
	}
}
