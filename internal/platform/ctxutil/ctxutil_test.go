// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/clipstream/internal/platform/ctxutil"
	"github.com/taibuivan/clipstream/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Identity verifies that the authenticated identity rides on a derived context.
*/
func TestContext_Identity(t *testing.T) {
	parent := context.Background()
	identity := &sec.Identity{ID: "0192f7c4-0000-7000-8000-000000000001", Username: "ada"}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetIdentity(parent))

	// 2. Inject and retrieve
	child := ctxutil.WithIdentity(parent, identity)
	retrieved := ctxutil.GetIdentity(child)

	require.NotNil(t, retrieved)
	assert.Equal(t, "ada", retrieved.Username)

	// 3. The parent is not mutated
	assert.Nil(t, ctxutil.GetIdentity(parent))
}
