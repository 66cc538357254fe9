package fsops_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehuff700/cmdlink/pkg/errors"
	"github.com/ehuff700/cmdlink/pkg/fsops"
	"github.com/ehuff700/cmdlink/pkg/testutil"
)

func TestApply_WriteAndDelete(t *testing.T) {
	root := testutil.TempDir(t, "fsops-test")
	e := fsops.NewExecutor(root, false)

	target := filepath.Join(root, "bin", "ll")
	err := e.Apply(context.Background(), []fsops.Op{
		fsops.CreateDir(filepath.Join(root, "bin")),
		fsops.WriteFile(target, []byte("#!/bin/sh\nexec ls \"$@\"\n"), 0755),
	})
	require.NoError(t, err)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assert.Equal(t, "#!/bin/sh\nexec ls \"$@\"\n", testutil.ReadFile(t, target))

	err = e.Apply(context.Background(), []fsops.Op{fsops.DeleteFile(target)})
	require.NoError(t, err)
	assert.False(t, testutil.FileExists(t, target))
}

func TestApply_RejectsPathOutsideRoot(t *testing.T) {
	root := testutil.TempDir(t, "fsops-guard")
	other := testutil.TempDir(t, "fsops-other")
	e := fsops.NewExecutor(root, false)

	err := e.Apply(context.Background(), []fsops.Op{
		fsops.WriteFile(filepath.Join(other, "escape"), []byte("x"), 0644),
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.False(t, testutil.FileExists(t, filepath.Join(other, "escape")))
}

func TestApply_DryRunWritesNothing(t *testing.T) {
	root := testutil.TempDir(t, "fsops-dryrun")
	e := fsops.NewExecutor(root, true)

	target := filepath.Join(root, "ll")
	err := e.Apply(context.Background(), []fsops.Op{
		fsops.WriteFile(target, []byte("content"), 0755),
	})
	require.NoError(t, err)
	assert.False(t, testutil.FileExists(t, target))
}

func TestApply_EmptyIsNoop(t *testing.T) {
	root := testutil.TempDir(t, "fsops-empty")
	e := fsops.NewExecutor(root, false)
	assert.NoError(t, e.Apply(context.Background(), nil))
}
