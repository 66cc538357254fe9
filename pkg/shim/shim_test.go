package shim

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehuff700/cmdlink/pkg/errors"
	"github.com/ehuff700/cmdlink/pkg/fsops"
	"github.com/ehuff700/cmdlink/pkg/testutil"
	"github.com/ehuff700/cmdlink/pkg/types"
)

func newTestMaterializer(t *testing.T) (*scriptMaterializer, string) {
	t.Helper()
	root := testutil.TempDir(t, "shim-test")
	binDir := filepath.Join(root, "bin")
	m := newScriptMaterializer(binDir, "", 0755, RenderPosix, fsops.NewExecutor(root, false))
	return m, binDir
}

func TestRenderPosix(t *testing.T) {
	def := types.AliasDefinition{
		Name: "ll",
		Exec: "ls",
		Args: []string{"-la"},
	}

	got := string(RenderPosix(def))
	want := "#!/bin/sh\n# generated by cmdlink; do not edit\nexec 'ls' '-la' \"$@\"\n"
	assert.Equal(t, want, got)
}

func TestRenderPosix_EnvAndDir(t *testing.T) {
	def := types.AliasDefinition{
		Name: "deploy",
		Exec: "make",
		Args: []string{"deploy"},
		Dir:  "/srv/app",
		Env:  map[string]string{"B_VAR": "two", "A_VAR": "it's one"},
	}

	got := string(RenderPosix(def))
	assert.Contains(t, got, "export A_VAR='it'\\''s one'\n")
	assert.Contains(t, got, "export B_VAR='two'\n")
	assert.Contains(t, got, "cd '/srv/app' || exit 1\n")
	// Env keys are sorted, so A_VAR comes first.
	assert.Less(t, strings.Index(got, "A_VAR"), strings.Index(got, "B_VAR"))
}

func TestRenderPosix_Deterministic(t *testing.T) {
	def := types.AliasDefinition{
		Name: "x",
		Exec: "tool",
		Env:  map[string]string{"C": "3", "A": "1", "B": "2"},
	}

	first := RenderPosix(def)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RenderPosix(def))
	}
}

func TestRenderBatch(t *testing.T) {
	def := types.AliasDefinition{
		Name: "ll",
		Exec: "dir",
		Args: []string{"/w", "a b"},
		Dir:  `C:\work`,
		Env:  map[string]string{"FOO": "bar"},
	}

	got := string(RenderBatch(def))
	assert.True(t, strings.HasPrefix(got, "@echo off\r\n"))
	assert.Contains(t, got, "set \"FOO=bar\"\r\n")
	assert.Contains(t, got, "cd /d \"C:\\work\"\r\n")
	assert.Contains(t, got, "dir /w \"a b\" %*\r\n")
}

func TestMaterialize_WritesExecutableShim(t *testing.T) {
	m, binDir := newTestMaterializer(t)

	artifact, err := m.Materialize(context.Background(), types.AliasDefinition{
		Name: "ll", Exec: "ls", Args: []string{"-la"},
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(binDir, "ll"), artifact.Path)
	assert.Equal(t, string(artifact.Content), testutil.ReadFile(t, artifact.Path))
}

func TestMaterialize_RejectsInvalidDefinition(t *testing.T) {
	m, _ := newTestMaterializer(t)

	_, err := m.Materialize(context.Background(), types.AliasDefinition{Name: "bad name", Exec: "ls"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRemove_Idempotent(t *testing.T) {
	m, _ := newTestMaterializer(t)
	ctx := context.Background()

	artifact, err := m.Materialize(ctx, types.AliasDefinition{Name: "ll", Exec: "ls"})
	require.NoError(t, err)

	require.NoError(t, m.Remove(ctx, "ll"))
	assert.False(t, testutil.FileExists(t, artifact.Path))

	// Removing an absent artifact is a successful no-op.
	require.NoError(t, m.Remove(ctx, "ll"))
}

func TestIsStale(t *testing.T) {
	m, _ := newTestMaterializer(t)
	ctx := context.Background()
	def := types.AliasDefinition{Name: "ll", Exec: "ls", Args: []string{"-la"}}

	stale, err := m.IsStale(def)
	require.NoError(t, err)
	assert.True(t, stale, "missing artifact is stale")

	_, err = m.Materialize(ctx, def)
	require.NoError(t, err)

	stale, err = m.IsStale(def)
	require.NoError(t, err)
	assert.False(t, stale)

	def.Args = []string{"-lah"}
	stale, err = m.IsStale(def)
	require.NoError(t, err)
	assert.True(t, stale, "changed target makes the artifact stale")
}

func TestList(t *testing.T) {
	m, _ := newTestMaterializer(t)
	ctx := context.Background()

	names, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, names, "absent bin dir lists empty")

	_, err = m.Materialize(ctx, types.AliasDefinition{Name: "zz", Exec: "true"})
	require.NoError(t, err)
	_, err = m.Materialize(ctx, types.AliasDefinition{Name: "aa", Exec: "true"})
	require.NoError(t, err)

	names, err = m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"aa", "zz"}, names)
}

// The shim directory may be a shared one like ~/bin; files without the
// generated header were put there by the user and are never listed as
// orphans or deleted.
func TestList_SkipsForeignFiles(t *testing.T) {
	m, binDir := newTestMaterializer(t)

	_, err := m.Materialize(context.Background(), types.AliasDefinition{Name: "ll", Exec: "ls"})
	require.NoError(t, err)
	testutil.CreateFile(t, binDir, "backup", "#!/bin/sh\ntar czf backup.tgz .\n")

	names, err := m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"ll"}, names)
}

func TestRemove_LeavesForeignFiles(t *testing.T) {
	m, binDir := newTestMaterializer(t)
	path := testutil.CreateFile(t, binDir, "backup", "#!/bin/sh\ntar czf backup.tgz .\n")

	require.NoError(t, m.Remove(context.Background(), "backup"))
	assert.True(t, testutil.FileExists(t, path))
}

// The materialized shim must behave like invoking the target directly: fixed
// args first, then user args, in the configured directory, with the
// environment overlaid.
func TestMaterialize_ShimBehavesLikeTarget(t *testing.T) {
	m, _ := newTestMaterializer(t)
	workDir := testutil.TempDir(t, "shim-workdir")
	resolvedDir, err := filepath.EvalSymlinks(workDir)
	require.NoError(t, err)

	def := types.AliasDefinition{
		Name: "echoargs",
		Exec: "/bin/sh",
		Args: []string{"-c", `pwd; printf '%s\n' "$SHIM_ENV" "$@"`, "echoargs"},
		Dir:  workDir,
		Env:  map[string]string{"SHIM_ENV": "injected"},
	}

	artifact, err := m.Materialize(context.Background(), def)
	require.NoError(t, err)

	out, err := exec.Command(artifact.Path, "a b", "c").Output()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 4)
	// pwd may report the logical or the symlink-resolved path.
	assert.Contains(t, []string{workDir, resolvedDir}, lines[0])
	assert.Equal(t, "injected", lines[1])
	assert.Equal(t, "a b", lines[2])
	assert.Equal(t, "c", lines[3])
}
