//go:build windows

package installer

import (
	"context"
	"encoding/base64"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf16"

	"golang.org/x/sys/windows/registry"

	"github.com/ehuff700/cmdlink/pkg/errors"
)

func newPlatformParts(_ string) (Table, Elevator) {
	table := &registryTable{}
	return table, &powershellElevator{table: table}
}

// registryTable is the per-user PATH value under HKCU\Environment. Only the
// one segment belonging to cmdlink is ever added; unrelated entries are
// preserved verbatim.
type registryTable struct{}

func (t *registryTable) currentPath() (string, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Environment`, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer key.Close()

	path, _, err := key.GetStringValue("Path")
	if err == registry.ErrNotExist {
		return "", nil
	}
	return path, err
}

func (t *registryTable) Contains(entry PathEntry) (bool, error) {
	path, err := t.currentPath()
	if err != nil {
		return false, err
	}
	for _, segment := range strings.Split(path, ";") {
		if strings.EqualFold(strings.TrimSpace(segment), entry.Dir) {
			return true, nil
		}
	}
	return false, nil
}

func appendSegment(path, dir string) string {
	if path == "" {
		return dir
	}
	return strings.TrimRight(path, ";") + ";" + dir
}

func (t *registryTable) Add(entry PathEntry) error {
	current, err := t.currentPath()
	if err != nil {
		return err
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, `Environment`, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		// ERROR_ACCESS_DENIED satisfies errors.Is(err, fs.ErrPermission),
		// which routes the engine into the elevation step.
		return err
	}
	defer key.Close()

	return key.SetStringValue("Path", appendSegment(current, entry.Dir))
}

// powershellElevator re-runs the PATH mutation through an elevated
// PowerShell, prompting UAC. Only the single SetEnvironmentVariable call runs
// elevated, never the whole process.
type powershellElevator struct {
	table *registryTable
}

func (e *powershellElevator) AddElevated(ctx context.Context, entry PathEntry) error {
	current, err := e.table.currentPath()
	if err != nil {
		return err
	}
	updated := appendSegment(current, entry.Dir)

	psCommand := fmt.Sprintf(
		"[Environment]::SetEnvironmentVariable('Path', '%s', 'User')",
		strings.ReplaceAll(updated, "'", "''"),
	)
	encoded := encodeUTF16LE(psCommand)

	elevate := fmt.Sprintf(
		"Start-Process -Verb RunAs -Wait -WindowStyle Hidden powershell.exe -ArgumentList '-NoProfile','-EncodedCommand','%s'",
		encoded,
	)

	cmd := exec.CommandContext(ctx, "powershell.exe", "-NoProfile", "-Command", elevate)
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	// UAC refusal surfaces as "The operation was canceled by the user".
	if strings.Contains(strings.ToLower(string(out)), "canceled by the user") {
		return errors.Wrapf(err, errors.ErrElevationDenied,
			"elevation request for %s was declined", entry.Dir)
	}
	return errors.Wrapf(err, errors.ErrApply,
		"elevated PATH update failed: %s", strings.TrimSpace(string(out)))
}

// encodeUTF16LE encodes a PowerShell command for -EncodedCommand.
func encodeUTF16LE(s string) string {
	codes := utf16.Encode([]rune(s))
	raw := make([]byte, 0, len(codes)*2)
	for _, c := range codes {
		raw = append(raw, byte(c), byte(c>>8))
	}
	return base64.StdEncoding.EncodeToString(raw)
}
