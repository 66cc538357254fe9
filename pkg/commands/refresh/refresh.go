// Package refresh implements the refresh command: regenerate every shim
// from the store, delete orphans, and re-apply the search-path entry. It is
// the recovery pass for partially applied operations, denied elevations,
// and hand-edited shim directories.
package refresh

import (
	"context"

	"github.com/ehuff700/cmdlink/pkg/commands/internal"
	"github.com/ehuff700/cmdlink/pkg/logging"
)

// Options defines the options for the Refresh command.
type Options struct {
	// DryRun logs mutations instead of performing them.
	DryRun bool
}

// Result reports what Refresh changed.
type Result struct {
	// Materialized lists aliases whose shims were rewritten.
	Materialized []string

	// Removed lists orphan shims that were deleted.
	Removed []string

	// PathChanged is true when the search-path entry had to be applied.
	PathChanged bool

	// Elevated is true when applying the path entry required elevation.
	Elevated bool
}

// Refresh reconciles the shim directory and search path with the store.
func Refresh(ctx context.Context, opts Options) (*Result, error) {
	log := logging.GetLogger("commands.refresh")
	log.Debug().Str("command", "Refresh").Msg("Executing command")

	rt, err := internal.NewRuntime(opts.DryRun)
	if err != nil {
		return nil, err
	}

	outcome, err := rt.Reconciler.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	log.Info().Str("command", "Refresh").
		Int("materialized", len(outcome.Materialized)).
		Int("removed", len(outcome.Removed)).
		Msg("Command finished")
	return &Result{
		Materialized: outcome.Materialized,
		Removed:      outcome.Removed,
		PathChanged:  outcome.PathChanged,
		Elevated:     outcome.Elevated,
	}, nil
}
