// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstore "github.com/taibuivan/clipstream/internal/platform/redis"
)

/*
TestNewClient_Connects dials an in-memory server and pings it.
*/
func TestNewClient_Connects(t *testing.T) {
	server := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := redisstore.NewClient(context.Background(), "redis://"+server.Addr()+"/0", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, redisstore.Ping(context.Background(), client))

	server.Close()
	assert.Error(t, redisstore.Ping(context.Background(), client))
}

/*
TestNewClient_InvalidURL rejects unparsable URLs without dialing.
*/
func TestNewClient_InvalidURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := redisstore.NewClient(context.Background(), "not a url", logger)
	assert.Error(t, err)
}
