// Package update implements the update command: change an existing alias's
// target, working directory, environment, or description. Unset options
// keep their current values.
package update

import (
	"context"

	"github.com/ehuff700/cmdlink/pkg/commands/internal"
	"github.com/ehuff700/cmdlink/pkg/logging"
	"github.com/ehuff700/cmdlink/pkg/reconciler"
	"github.com/ehuff700/cmdlink/pkg/types"
)

// Options defines the options for the Update command. Pointer fields are
// overrides; nil keeps the stored value.
type Options struct {
	// Name is the alias to update.
	Name string

	Exec        *string
	Args        *[]string
	Dir         *string
	Env         *map[string]string
	Description *string

	// DryRun logs mutations instead of performing them.
	DryRun bool
}

// Result reports what Update did.
type Result struct {
	Alias    string
	ShimPath string
	Elevated bool
	Warning  string
}

// Update rewrites the alias with the given overrides applied.
func Update(ctx context.Context, opts Options) (*Result, error) {
	log := logging.GetLogger("commands.update")
	log.Debug().Str("command", "Update").Str("alias", opts.Name).Msg("Executing command")

	rt, err := internal.NewRuntime(opts.DryRun)
	if err != nil {
		return nil, err
	}

	def, err := rt.Store.Get(opts.Name)
	if err != nil {
		return nil, err
	}
	if opts.Exec != nil {
		def.Exec = *opts.Exec
	}
	if opts.Args != nil {
		def.Args = *opts.Args
	}
	if opts.Dir != nil {
		def.Dir = *opts.Dir
	}
	if opts.Env != nil {
		def.Env = *opts.Env
	}
	if opts.Description != nil {
		def.Description = *opts.Description
	}

	outcome, err := rt.Reconciler.Apply(ctx, reconciler.Operation{
		Kind: reconciler.OpUpdate,
		Name: opts.Name,
		Def:  def,
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

	log.Info().Str("command", "Update").Str("alias", opts.Name).Msg("Command finished")
	return result, err
}
