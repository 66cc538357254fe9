package list_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehuff700/cmdlink/pkg/commands/add"
	"github.com/ehuff700/cmdlink/pkg/commands/list"
	"github.com/ehuff700/cmdlink/pkg/testutil"
)

func TestList_Empty(t *testing.T) {
	root := testutil.TempDir(t, "list")
	testutil.SetupEnv(t, root)

	result, err := list.List(list.Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	assert.False(t, result.PathInstalled)
}

func TestList(t *testing.T) {
	root := testutil.TempDir(t, "list")
	testutil.SetupEnv(t, root)

	_, err := add.Add(context.Background(), add.Options{Name: "ll", Exec: "ls", Args: []string{"-la"}})
	require.NoError(t, err)
	_, err = add.Add(context.Background(), add.Options{Name: "gs", Exec: "git", Args: []string{"status"}})
	require.NoError(t, err)

	result, err := list.List(list.Options{})
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	// Sorted by name.
	assert.Equal(t, "gs", result.Entries[0].Def.Name)
	assert.Equal(t, "ll", result.Entries[1].Def.Name)
	assert.False(t, result.Entries[0].Stale)
	assert.Equal(t, filepath.Join(root, "data", "bin"), result.BinDir)
	assert.True(t, result.PathInstalled)
}

func TestList_FlagsTamperedShim(t *testing.T) {
	root := testutil.TempDir(t, "list")
	testutil.SetupEnv(t, root)

	_, err := add.Add(context.Background(), add.Options{Name: "ll", Exec: "ls"})
	require.NoError(t, err)

	shimPath := filepath.Join(root, "data", "bin", "ll")
	require.NoError(t, os.WriteFile(shimPath, []byte("#!/bin/sh\nexec rm -rf /\n"), 0o755))

	result, err := list.List(list.Options{})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.True(t, result.Entries[0].Stale)
}
