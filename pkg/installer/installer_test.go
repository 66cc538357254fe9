package installer_test

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehuff700/cmdlink/pkg/errors"
	"github.com/ehuff700/cmdlink/pkg/installer"
	"github.com/ehuff700/cmdlink/pkg/testutil"
)

// fakeTable simulates the platform command-search table.
type fakeTable struct {
	entries  []string
	addErr   error
	addCalls int
	failAdds bool
}

func (t *fakeTable) Contains(entry installer.PathEntry) (bool, error) {
	for _, dir := range t.entries {
		if dir == entry.Dir {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTable) Add(entry installer.PathEntry) error {
	t.addCalls++
	if t.failAdds {
		return t.addErr
	}
	t.entries = append(t.entries, entry.Dir)
	return nil
}

// fakeElevator scripts the elevation outcome.
type fakeElevator struct {
	err   error
	table *fakeTable
	block bool
	calls int
}

func (e *fakeElevator) AddElevated(ctx context.Context, entry installer.PathEntry) error {
	e.calls++
	if e.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if e.err != nil {
		return e.err
	}
	e.table.entries = append(e.table.entries, entry.Dir)
	return nil
}

var permDenied = &fs.PathError{Op: "open", Path: "table", Err: fs.ErrPermission}

func TestApply_AddsEntry(t *testing.T) {
	table := &fakeTable{}
	inst := installer.NewWithParts(table, &fakeElevator{table: table}, 0, false)

	res, err := inst.Apply(context.Background(), installer.PathEntry{Dir: "/opt/bin"})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.False(t, res.Elevated)
	assert.Equal(t, []string{"/opt/bin"}, table.entries)
}

func TestApply_Idempotent(t *testing.T) {
	table := &fakeTable{}
	inst := installer.NewWithParts(table, &fakeElevator{table: table}, 0, false)
	entry := installer.PathEntry{Dir: "/opt/bin"}

	first, err := inst.Apply(context.Background(), entry)
	require.NoError(t, err)
	second, err := inst.Apply(context.Background(), entry)
	require.NoError(t, err)

	assert.True(t, first.Changed)
	assert.False(t, second.Changed, "re-apply must be a no-op success")
	assert.Len(t, table.entries, 1, "no duplicate entries")
	assert.Equal(t, 1, table.addCalls)
}

func TestApply_ElevatesOnAccessDenied(t *testing.T) {
	table := &fakeTable{failAdds: true, addErr: permDenied}
	elevator := &fakeElevator{table: table}
	inst := installer.NewWithParts(table, elevator, 0, false)

	res, err := inst.Apply(context.Background(), installer.PathEntry{Dir: "/opt/bin"})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, res.Elevated)
	assert.Equal(t, 1, elevator.calls)
}

func TestApply_ElevationDeniedSurfaces(t *testing.T) {
	table := &fakeTable{failAdds: true, addErr: permDenied}
	elevator := &fakeElevator{err: errors.New(errors.ErrElevationDenied, "user declined")}
	inst := installer.NewWithParts(table, elevator, 0, false)

	_, err := inst.Apply(context.Background(), installer.PathEntry{Dir: "/opt/bin"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrElevationDenied))
}

func TestApply_ElevatedFailureIsApplyError(t *testing.T) {
	table := &fakeTable{failAdds: true, addErr: permDenied}
	elevator := &fakeElevator{err: errors.New(errors.ErrApply, "registry write failed")}
	inst := installer.NewWithParts(table, elevator, 0, false)

	_, err := inst.Apply(context.Background(), installer.PathEntry{Dir: "/opt/bin"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrApply))
}

func TestApply_NonPermissionErrorSkipsElevation(t *testing.T) {
	table := &fakeTable{failAdds: true, addErr: assert.AnError}
	elevator := &fakeElevator{table: table}
	inst := installer.NewWithParts(table, elevator, 0, false)

	_, err := inst.Apply(context.Background(), installer.PathEntry{Dir: "/opt/bin"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrApply))
	assert.Equal(t, 0, elevator.calls, "elevation is only for access-denied outcomes")
}

func TestApply_UnansweredPromptResolvesAsDenied(t *testing.T) {
	table := &fakeTable{failAdds: true, addErr: permDenied}
	elevator := &fakeElevator{block: true}
	inst := installer.NewWithParts(table, elevator, 20*time.Millisecond, false)

	_, err := inst.Apply(context.Background(), installer.PathEntry{Dir: "/opt/bin"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrElevationDenied))
}

func TestApply_DryRunDoesNotMutate(t *testing.T) {
	table := &fakeTable{}
	inst := installer.NewWithParts(table, &fakeElevator{table: table}, 0, true)

	res, err := inst.Apply(context.Background(), installer.PathEntry{Dir: "/opt/bin"})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Empty(t, table.entries)
	assert.Equal(t, 0, table.addCalls)
}

func TestRCFileTable_AddAndContains(t *testing.T) {
	dir := testutil.TempDir(t, "rcfile-test")
	rcPath := filepath.Join(dir, ".profile")
	table := installer.NewRCFileTable(rcPath)
	entry := installer.PathEntry{Dir: "/data/cmdlink/bin"}

	present, err := table.Contains(entry)
	require.NoError(t, err)
	assert.False(t, present)

	require.NoError(t, table.Add(entry))

	present, err = table.Contains(entry)
	require.NoError(t, err)
	assert.True(t, present)

	content := testutil.ReadFile(t, rcPath)
	assert.Contains(t, content, `export PATH="/data/cmdlink/bin:$PATH"`)
}

func TestRCFileTable_PreservesUserContent(t *testing.T) {
	dir := testutil.TempDir(t, "rcfile-preserve")
	rcPath := testutil.CreateFile(t, dir, ".profile", "alias vi=nvim\nexport EDITOR=nvim")
	table := installer.NewRCFileTable(rcPath)

	require.NoError(t, table.Add(installer.PathEntry{Dir: "/a/bin"}))

	content := testutil.ReadFile(t, rcPath)
	assert.Contains(t, content, "alias vi=nvim")
	assert.Contains(t, content, "export EDITOR=nvim")
	assert.Contains(t, content, `export PATH="/a/bin:$PATH"`)
}

func TestRCFileTable_RewritesManagedBlock(t *testing.T) {
	dir := testutil.TempDir(t, "rcfile-rewrite")
	rcPath := filepath.Join(dir, ".profile")
	table := installer.NewRCFileTable(rcPath)

	require.NoError(t, table.Add(installer.PathEntry{Dir: "/old/bin"}))
	require.NoError(t, table.Add(installer.PathEntry{Dir: "/new/bin"}))

	content := testutil.ReadFile(t, rcPath)
	assert.NotContains(t, content, "/old/bin")
	assert.Contains(t, content, "/new/bin")
	assert.Equal(t, 1, strings.Count(content, "# >>> cmdlink managed path >>>"))
}
