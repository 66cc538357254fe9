// Package add implements the add command: register a new alias, write its
// shim, and make sure the shim directory is on the search path.
package add

import (
	"context"

	"github.com/ehuff700/cmdlink/pkg/commands/internal"
	"github.com/ehuff700/cmdlink/pkg/logging"
	"github.com/ehuff700/cmdlink/pkg/reconciler"
	"github.com/ehuff700/cmdlink/pkg/types"
)

// Options defines the options for the Add command.
type Options struct {
	// Name is the alias name the user will invoke.
	Name string

	// Exec is the target executable.
	Exec string

	// Args are baked-in arguments placed before the user's own.
	Args []string

	// Dir is an optional working directory for the target.
	Dir string

	// Env holds extra environment variables for the target.
	Env map[string]string

	// Description is free-form text shown by list.
	Description string

	// DryRun logs mutations instead of performing them.
	DryRun bool
}

// Result reports what Add did.
type Result struct {
	Alias    string
	ShimPath string

	// Elevated is true when installing the search-path entry needed
	// elevated rights.
	Elevated bool

	// Warning is set when the alias was saved but something still needs
	// the user's attention, such as a pending search-path entry.
	Warning string
}

// Add registers the alias and materializes its shim.
func Add(ctx context.Context, opts Options) (*Result, error) {
	log := logging.GetLogger("commands.add")
	log.Debug().Str("command", "Add").Str("alias", opts.Name).Msg("Executing command")

	rt, err := internal.NewRuntime(opts.DryRun)
	if err != nil {
		return nil, err
	}

	outcome, err := rt.Reconciler.Apply(ctx, reconciler.Operation{
		Kind: reconciler.OpAdd,
		Name: opts.Name,
		Def: types.AliasDefinition{
			Exec:        opts.Exec,
			Args:        opts.Args,
			Dir:         opts.Dir,
			Env:         opts.Env,
			Description: opts.Description,
		},
	})
	if err != nil && (outcome == nil || outcome.State != types.StateCommitted) {
		return nil, err
	}

	result := &Result{
		Alias:    outcome.Alias,
		ShimPath: rt.Materializer.ArtifactPath(outcome.Alias),
		Elevated: outcome.Elevated,
		Warning:  outcome.Warning,
	}

	log.Info().Str("command", "Add").Str("alias", opts.Name).Msg("Command finished")
	return result, err
}
