// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestRootCommand_Subcommands registers serve and the migrate tree.
*/
func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()

	for _, path := range [][]string{{"serve"}, {"migrate", "up"}, {"migrate", "down"}, {"migrate", "version"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("skip-migrations"))
}

/*
TestMigrateDown_RejectsBadSteps fails before touching configuration.
*/
func TestMigrateDown_RejectsBadSteps(t *testing.T) {
	for _, steps := range []string{"zero", "0"} {
		root := newRootCommand()
		root.SetArgs([]string{"migrate", "down", steps})

		err := root.Execute()
		require.Error(t, err, steps)
		assert.Contains(t, err.Error(), "positive integer")
	}
}
