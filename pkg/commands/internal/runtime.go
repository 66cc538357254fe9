// Package internal wires the collaborators every command needs: resolved
// paths, loaded settings, the alias store, the platform materializer, and
// the reconciler driving them.
package internal

import (
	"github.com/ehuff700/cmdlink/pkg/config"
	"github.com/ehuff700/cmdlink/pkg/fsops"
	"github.com/ehuff700/cmdlink/pkg/installer"
	"github.com/ehuff700/cmdlink/pkg/paths"
	"github.com/ehuff700/cmdlink/pkg/reconciler"
	"github.com/ehuff700/cmdlink/pkg/shim"
	"github.com/ehuff700/cmdlink/pkg/store"
)

// Runtime bundles the live collaborators for one command invocation.
type Runtime struct {
	Paths        *paths.Paths
	Settings     *config.Settings
	Store        *store.Store
	Materializer shim.Materializer
	Installer    installer.Installer
	Reconciler   *reconciler.Reconciler

	// BinDir is the resolved shim directory, after any settings override.
	BinDir string

	// DryRun propagates to every mutating collaborator.
	DryRun bool
}

// NewRuntime resolves paths and settings and assembles the collaborators.
// With dryRun set, mutating operations log what they would do instead.
func NewRuntime(dryRun bool) (*Runtime, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(p.SettingsFile())
	if err != nil {
		return nil, err
	}

	if !dryRun {
		if err := p.EnsureLayout(); err != nil {
			return nil, err
		}
	}

	binDir := settings.ShimDir
	if binDir == "" {
		binDir = p.BinDir()
	}

	exec := fsops.NewExecutor(binDir, dryRun)
	materializer := shim.New(binDir, exec)
	inst := installer.New(settings.RCFile, settings.ElevationTimeout, dryRun)
	st := store.New(p.AliasFile())

	return &Runtime{
		Paths:        p,
		Settings:     settings,
		Store:        st,
		Materializer: materializer,
		Installer:    inst,
		Reconciler:   reconciler.New(st, materializer, inst, binDir, dryRun),
		BinDir:       binDir,
		DryRun:       dryRun,
	}, nil
}
