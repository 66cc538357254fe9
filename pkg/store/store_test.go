package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehuff700/cmdlink/pkg/errors"
	"github.com/ehuff700/cmdlink/pkg/store"
	"github.com/ehuff700/cmdlink/pkg/testutil"
	"github.com/ehuff700/cmdlink/pkg/types"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := testutil.TempDir(t, "store-test")
	return store.New(filepath.Join(dir, "aliases.toml"))
}

func addAlias(t *testing.T, s *store.Store, name, exec string, args ...string) {
	t.Helper()
	change, err := s.Stage(func(aliases map[string]types.AliasDefinition) error {
		now := time.Now().UTC()
		aliases[name] = types.AliasDefinition{
			Name:      name,
			Exec:      exec,
			Args:      args,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Commit(change))
}

func TestLoad_AbsentFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	snap, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Aliases)
}

func TestStageCommit_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	addAlias(t, s, "ll", "ls", "-la")

	def, err := s.Get("ll")
	require.NoError(t, err)
	assert.Equal(t, "ll", def.Name)
	assert.Equal(t, "ls", def.Exec)
	assert.Equal(t, []string{"-la"}, def.Args)
	assert.False(t, def.CreatedAt.IsZero())
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestList_SortedByName(t *testing.T) {
	s := newTestStore(t)
	addAlias(t, s, "zz", "true")
	addAlias(t, s, "aa", "true")
	addAlias(t, s, "mm", "true")

	defs, err := s.List()
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, "aa", defs[0].Name)
	assert.Equal(t, "mm", defs[1].Name)
	assert.Equal(t, "zz", defs[2].Name)
}

func TestStage_MutateErrorAborts(t *testing.T) {
	s := newTestStore(t)
	addAlias(t, s, "ll", "ls")

	_, err := s.Stage(func(aliases map[string]types.AliasDefinition) error {
		if _, exists := aliases["ll"]; exists {
			return errors.Newf(errors.ErrAlreadyExists, "alias %q already exists", "ll")
		}
		return nil
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
}

func TestCommit_ConflictOnConcurrentEdit(t *testing.T) {
	s := newTestStore(t)
	addAlias(t, s, "ll", "ls")

	// Two sessions stage changes from the same durable state.
	first, err := s.Stage(func(aliases map[string]types.AliasDefinition) error {
		aliases["gs"] = types.AliasDefinition{Name: "gs", Exec: "git", Args: []string{"status"}}
		return nil
	})
	require.NoError(t, err)

	second, err := s.Stage(func(aliases map[string]types.AliasDefinition) error {
		aliases["gs"] = types.AliasDefinition{Name: "gs", Exec: "git", Args: []string{"stash"}}
		return nil
	})
	require.NoError(t, err)

	// Exactly one commit wins; the race loser gets CONFLICT.
	require.NoError(t, s.Commit(first))
	err = s.Commit(second)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConflict))

	def, err := s.Get("gs")
	require.NoError(t, err)
	assert.Equal(t, []string{"status"}, def.Args)
}

func TestCommit_ConflictOnExternalWrite(t *testing.T) {
	s := newTestStore(t)
	addAlias(t, s, "ll", "ls")

	change, err := s.Stage(func(aliases map[string]types.AliasDefinition) error {
		delete(aliases, "ll")
		return nil
	})
	require.NoError(t, err)

	// Another tool rewrites the file directly.
	require.NoError(t, os.WriteFile(s.Path(), []byte("[aliases.other]\nexec = \"true\"\n"), 0644))

	err = s.Commit(change)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConflict))
}

func TestRollback_NoDurableEffect(t *testing.T) {
	s := newTestStore(t)
	addAlias(t, s, "ll", "ls")

	change, err := s.Stage(func(aliases map[string]types.AliasDefinition) error {
		delete(aliases, "ll")
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Rollback(change))

	defs, err := s.List()
	require.NoError(t, err)
	assert.Len(t, defs, 1)
}

func TestCommit_ReplacesWholeFile(t *testing.T) {
	s := newTestStore(t)
	addAlias(t, s, "ll", "ls", "-la")
	addAlias(t, s, "gs", "git", "status")

	change, err := s.Stage(func(aliases map[string]types.AliasDefinition) error {
		delete(aliases, "ll")
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Commit(change))

	raw := testutil.ReadFile(t, s.Path())
	assert.NotContains(t, raw, "[aliases.ll]")
	assert.Contains(t, raw, "[aliases.gs]")
}
