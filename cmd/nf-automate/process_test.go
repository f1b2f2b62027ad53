// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// processConfig is shared by process and watch; it may only read flags
// both commands define.
func TestProcessConfigSharedFlags(t *testing.T) {
	for _, cmd := range []*cobra.Command{processCmd, watchCmd} {
		cfg := processConfig(cmd)
		assert.Equal(t, "inbox", cfg.InboxDir, cmd.Name())
		assert.Equal(t, "processed", cfg.ProcessedDir, cmd.Name())
		assert.False(t, cfg.Force, cmd.Name())
		assert.False(t, cfg.KeepInInbox, cmd.Name())
	}

	// force and keep belong to the process command alone.
	assert.Nil(t, watchCmd.Flags().Lookup("force"))
	assert.Nil(t, watchCmd.Flags().Lookup("keep"))
	assert.NotNil(t, processCmd.Flags().Lookup("force"))
	assert.NotNil(t, processCmd.Flags().Lookup("keep"))
}

func TestProcessConfigFlagOverride(t *testing.T) {
	require.NoError(t, processCmd.Flags().Set("inbox", "drop"))
	defer processCmd.Flags().Set("inbox", "")

	cfg := processConfig(processCmd)
	assert.Equal(t, "drop", cfg.InboxDir)
}
