// Package setup implements the setup command: create the directory layout,
// seed a commented config.toml if none exists, and install the search-path
// entry so freshly added aliases resolve immediately.
package setup

import (
	"context"
	"os"

	"github.com/ehuff700/cmdlink/pkg/commands/internal"
	"github.com/ehuff700/cmdlink/pkg/config"
	"github.com/ehuff700/cmdlink/pkg/errors"
	"github.com/ehuff700/cmdlink/pkg/installer"
	"github.com/ehuff700/cmdlink/pkg/logging"
)

// Options defines the options for the Setup command.
type Options struct {
	// DryRun logs mutations instead of performing them.
	DryRun bool
}

// Result reports what Setup did.
type Result struct {
	// ConfigFile is where the settings file lives.
	ConfigFile string

	// ConfigCreated is true when a fresh config.toml was written.
	ConfigCreated bool

	// BinDir is the shim directory that was put on the search path.
	BinDir string

	// PathChanged is true when the search-path entry had to be added.
	PathChanged bool

	// Elevated is true when adding the path entry required elevation.
	Elevated bool
}

// Setup prepares the on-disk layout and search path.
func Setup(ctx context.Context, opts Options) (*Result, error) {
	log := logging.GetLogger("commands.setup")
	log.Debug().Str("command", "Setup").Msg("Executing command")

	rt, err := internal.NewRuntime(opts.DryRun)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ConfigFile: rt.Paths.SettingsFile(),
		BinDir:     rt.BinDir,
	}

	if _, err := os.Stat(result.ConfigFile); os.IsNotExist(err) {
		if !opts.DryRun {
			content := []byte(config.DefaultSettingsContent())
			if err := os.WriteFile(result.ConfigFile, content, 0o644); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad,
					"failed to seed %s", result.ConfigFile)
			}
		}
		result.ConfigCreated = true
	}

	applied, err := rt.Installer.Apply(ctx, installer.PathEntry{Dir: rt.BinDir})
	if err != nil {
		return result, err
	}
	result.PathChanged = applied.Changed
	result.Elevated = applied.Elevated

	log.Info().Str("command", "Setup").Bool("configCreated", result.ConfigCreated).Msg("Command finished")
	return result, nil
}
