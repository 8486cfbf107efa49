// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/clipstream/pkg/uuid"
)

/*
TestNew_Version7 checks that generated IDs are valid, distinct version 7 UUIDs.
*/
func TestNew_Version7(t *testing.T) {
	first, err := uuid.New()
	require.NoError(t, err)
	second, err := uuid.New()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, uuid.IsValid(first))
	assert.Equal(t, googleuuid.Version(7), googleuuid.MustParse(first).Version())
}

/*
TestIsValid rejects non-UUID strings.
*/
func TestIsValid(t *testing.T) {
	assert.False(t, uuid.IsValid(""))
	assert.False(t, uuid.IsValid("acc-1"))
	assert.True(t, uuid.IsValid("0192f7c4-5b1e-7c3a-9d2f-3a4b5c6d7e8f"))
}
