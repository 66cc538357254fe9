// Package testutil provides shared helpers for cmdlink tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

// TempDir creates a temporary directory for tests and returns its path.
// The directory is automatically cleaned up when the test completes.
func TempDir(t *testing.T, prefix string) string {
	t.Helper()
	return t.TempDir()
}

// CreateFile creates a file with the given content in the specified directory.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}

	return path
}

// CreateDir creates a directory in the specified parent directory.
// It fails the test if the directory cannot be created.
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()

	path := filepath.Join(parent, name)

	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}

	return path
}

// SetupEnv points every cmdlink directory override below root, isolating the
// test from the invoking user's real configuration.
func SetupEnv(t *testing.T, root string) {
	t.Helper()

	t.Setenv("CMDLINK_CONFIG_DIR", filepath.Join(root, "config"))
	t.Setenv("CMDLINK_DATA_DIR", filepath.Join(root, "data"))
	t.Setenv("CMDLINK_STATE_DIR", filepath.Join(root, "state"))

	// Keep the shell-profile installer away from the real home directory.
	t.Setenv("HOME", root)
	t.Setenv("SHELL", "/bin/bash")
}

// ReloadXDG re-reads the XDG base directories after a test has changed the
// environment. The xdg package caches them at init time.
func ReloadXDG(t *testing.T) {
	t.Helper()
	xdg.Reload()
}

// ReadFile reads a file and fails the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}

// FileExists checks if a file exists and is not a directory.
func FileExists(t *testing.T, path string) bool {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
