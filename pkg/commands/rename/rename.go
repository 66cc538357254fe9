// Package rename implements the rename command: move an alias to a new
// name. It is remove-plus-add inside one transaction, so no failure can
// leave both names live or neither.
package rename

import (
	"context"

	"github.com/ehuff700/cmdlink/pkg/commands/internal"
	"github.com/ehuff700/cmdlink/pkg/logging"
	"github.com/ehuff700/cmdlink/pkg/reconciler"
	"github.com/ehuff700/cmdlink/pkg/types"
)

// Options defines the options for the Rename command.
type Options struct {
	// From is the current alias name.
	From string

	// To is the new alias name.
	To string

	// DryRun logs mutations instead of performing them.
	DryRun bool
}

// Result reports what Rename did.
type Result struct {
	From     string
	To       string
	ShimPath string
	Elevated bool
	Warning  string
}

// Rename moves the alias from one name to another.
func Rename(ctx context.Context, opts Options) (*Result, error) {
	log := logging.GetLogger("commands.rename")
	log.Debug().Str("command", "Rename").Str("from", opts.From).Str("to", opts.To).Msg("Executing command")

	rt, err := internal.NewRuntime(opts.DryRun)
	if err != nil {
		return nil, err
	}

	outcome, err := rt.Reconciler.Apply(ctx, reconciler.Operation{
		Kind:    reconciler.OpRename,
		Name:    opts.From,
		NewName: opts.To,
	})
	if err != nil && (outcome == nil || outcome.State != types.StateCommitted) {
		return nil, err
	}

	result := &Result{
		From:     opts.From,
		To:       outcome.Alias,
		ShimPath: rt.Materializer.ArtifactPath(outcome.Alias),
		Elevated: outcome.Elevated,
		Warning:  outcome.Warning,
	}

	log.Info().Str("command", "Rename").Str("from", opts.From).Str("to", opts.To).Msg("Command finished")
	return result, err
}
