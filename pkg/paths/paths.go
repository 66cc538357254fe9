// Package paths provides centralized path handling for cmdlink.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/ehuff700/cmdlink/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for cmdlink
	EnvConfigDir = "CMDLINK_CONFIG_DIR"

	// EnvDataDir overrides the XDG data directory for cmdlink
	EnvDataDir = "CMDLINK_DATA_DIR"

	// EnvStateDir overrides the XDG state directory for cmdlink
	EnvStateDir = "CMDLINK_STATE_DIR"
)

// Default directories and files
// IMPORTANT: These constants define cmdlink's on-disk layout and are NOT
// user-configurable. The alias store and shim directory locations must stay
// consistent across installations so that generated shims keep resolving.
const (
	// AppDirName is the directory name for cmdlink-specific files
	AppDirName = "cmdlink"

	// AliasFileName is the name of the alias store file
	AliasFileName = "aliases.toml"

	// SettingsFileName is the name of the tool settings file
	SettingsFileName = "config.toml"

	// BinDirName is the subdirectory of the data dir holding generated shims
	BinDirName = "bin"

	// LogFileName is the name of the log file
	LogFileName = "cmdlink.log"
)

// Paths provides centralized path management for cmdlink
type Paths struct {
	configDir string
	dataDir   string
	stateDir  string
}

// New creates a Paths instance from the environment, falling back to the
// XDG base directories.
func New() (*Paths, error) {
	p := &Paths{
		configDir: dirFromEnv(EnvConfigDir, xdg.ConfigHome),
		dataDir:   dirFromEnv(EnvDataDir, xdg.DataHome),
		stateDir:  dirFromEnv(EnvStateDir, xdg.StateHome),
	}
	if p.configDir == "" || p.dataDir == "" || p.stateDir == "" {
		return nil, errors.New(errors.ErrInternal, "could not resolve base directories")
	}
	return p, nil
}

func dirFromEnv(env, xdgBase string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	if xdgBase == "" {
		return ""
	}
	return filepath.Join(xdgBase, AppDirName)
}

// ConfigDir returns the directory holding the alias store and settings file
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// DataDir returns the directory holding cmdlink-owned data
func (p *Paths) DataDir() string {
	return p.dataDir
}

// StateDir returns the directory holding logs and other disposable state
func (p *Paths) StateDir() string {
	return p.stateDir
}

// BinDir returns the directory where generated shims live. This is the
// directory that must be present on the command-search path.
func (p *Paths) BinDir() string {
	return filepath.Join(p.dataDir, BinDirName)
}

// AliasFile returns the path to the durable alias store
func (p *Paths) AliasFile() string {
	return filepath.Join(p.configDir, AliasFileName)
}

// SettingsFile returns the path to the tool settings file
func (p *Paths) SettingsFile() string {
	return filepath.Join(p.configDir, SettingsFileName)
}

// LogFile returns the path to the log file
func (p *Paths) LogFile() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// EnsureLayout creates the directory skeleton cmdlink needs to operate
func (p *Paths) EnsureLayout() error {
	for _, dir := range []string{p.configDir, p.dataDir, p.stateDir, p.BinDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "failed to create directory %s", dir)
		}
	}
	return nil
}
