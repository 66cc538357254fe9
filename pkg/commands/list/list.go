// Package list implements the list command: report every registered alias
// together with its on-disk health.
package list

import (
	"github.com/ehuff700/cmdlink/pkg/commands/internal"
	"github.com/ehuff700/cmdlink/pkg/installer"
	"github.com/ehuff700/cmdlink/pkg/logging"
	"github.com/ehuff700/cmdlink/pkg/types"
)

// Options defines the options for the List command.
type Options struct{}

// Entry is one alias row.
type Entry struct {
	Def types.AliasDefinition

	// ShimPath is where the alias's shim lives.
	ShimPath string

	// Stale is true when the shim is missing or differs from what the
	// definition renders to. A refresh fixes it.
	Stale bool
}

// Result reports the registered aliases.
type Result struct {
	Entries []Entry

	// BinDir is the shim directory.
	BinDir string

	// PathInstalled is true when BinDir is on the command-search path.
	PathInstalled bool

	// ColorMode is the configured output color mode: auto, always, or
	// never.
	ColorMode string
}

// List returns every alias, sorted by name.
func List(_ Options) (*Result, error) {
	log := logging.GetLogger("commands.list")
	log.Debug().Str("command", "List").Msg("Executing command")

	rt, err := internal.NewRuntime(false)
	if err != nil {
		return nil, err
	}

	defs, err := rt.Store.List()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Entries:   make([]Entry, 0, len(defs)),
		BinDir:    rt.BinDir,
		ColorMode: rt.Settings.Color,
	}
	for _, def := range defs {
		stale, err := rt.Materializer.IsStale(def)
		if err != nil {
			return nil, err
		}
		result.Entries = append(result.Entries, Entry{
			Def:      def,
			ShimPath: rt.Materializer.ArtifactPath(def.Name),
			Stale:    stale,
		})
	}

	installed, err := rt.Installer.IsApplied(installer.PathEntry{Dir: rt.BinDir})
	if err != nil {
		// The path check is advisory; a broken rc file should not hide
		// the alias listing.
		log.Warn().Err(err).Msg("Could not check search-path state")
	} else {
		result.PathInstalled = installed
	}

	log.Info().Str("command", "List").Int("aliasCount", len(result.Entries)).Msg("Command finished")
	return result, nil
}
