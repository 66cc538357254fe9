// Package remove implements the remove command: drop an alias and delete
// its shim. The search-path entry is left alone so other aliases keep
// working.
package remove

import (
	"context"

	"github.com/ehuff700/cmdlink/pkg/commands/internal"
	"github.com/ehuff700/cmdlink/pkg/logging"
	"github.com/ehuff700/cmdlink/pkg/reconciler"
	"github.com/ehuff700/cmdlink/pkg/types"
)

// Options defines the options for the Remove command.
type Options struct {
	// Name is the alias to remove.
	Name string

	// DryRun logs mutations instead of performing them.
	DryRun bool
}

// Result reports what Remove did.
type Result struct {
	Alias string
}

// Remove deletes the alias and its shim.
func Remove(ctx context.Context, opts Options) (*Result, error) {
	log := logging.GetLogger("commands.remove")
	log.Debug().Str("command", "Remove").Str("alias", opts.Name).Msg("Executing command")

	rt, err := internal.NewRuntime(opts.DryRun)
	if err != nil {
		return nil, err
	}

	outcome, err := rt.Reconciler.Apply(ctx, reconciler.Operation{
		Kind: reconciler.OpRemove,
		Name: opts.Name,
	})
	if err != nil && (outcome == nil || outcome.State != types.StateCommitted) {
		return nil, err
	}

	log.Info().Str("command", "Remove").Str("alias", opts.Name).Msg("Command finished")
	return &Result{Alias: outcome.Alias}, err
}
