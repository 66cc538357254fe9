// Package reconciler orchestrates alias operations across the store, the
// shim generator, and the installer.
//
// Each operation walks the state machine
// Requested → Staged → Materialized → Installed → Committed, with failure
// exits RolledBack and PartiallyApplied. The store commit is the point of
// visibility: until it succeeds, Get and List still see the prior state, and
// any failure before it drives a best-effort undo of the artifacts already
// written. A rollback that itself fails partway ends in PartiallyApplied,
// which is always surfaced to the caller; Refresh re-derives every artifact
// from the store to reconcile.
package reconciler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehuff700/cmdlink/pkg/errors"
	"github.com/ehuff700/cmdlink/pkg/installer"
	"github.com/ehuff700/cmdlink/pkg/logging"
	"github.com/ehuff700/cmdlink/pkg/shim"
	"github.com/ehuff700/cmdlink/pkg/store"
	"github.com/ehuff700/cmdlink/pkg/types"
)

// Reconciler drives alias operations atomically.
type Reconciler struct {
	store        *store.Store
	materializer shim.Materializer
	installer    installer.Installer
	binDir       string
	dryRun       bool
	logger       zerolog.Logger
	now          func() time.Time
}

// New creates a Reconciler over the given collaborators. binDir is the shim
// directory the installer keeps on the command-search path. With dryRun set
// the store is never written; the artifact and path collaborators are
// expected to carry their own dry-run behavior.
func New(st *store.Store, m shim.Materializer, inst installer.Installer, binDir string, dryRun bool) *Reconciler {
	return &Reconciler{
		store:        st,
		materializer: m,
		installer:    inst,
		binDir:       binDir,
		dryRun:       dryRun,
		logger:       logging.GetLogger("reconciler"),
		now:          time.Now,
	}
}

// Apply runs one alias operation to completion.
//
// On ElevationDenied the definition is still committed: the alias is defined
// but not yet installed, the Result says so in Warning, and the typed denial
// is returned alongside so the caller can exit accordingly.
func (r *Reconciler) Apply(ctx context.Context, op Operation) (*Result, error) {
	if err := op.validate(); err != nil {
		return nil, err
	}

	logger := r.logger.With().Str("op", op.Kind.String()).Str("alias", op.Name).Logger()
	done := logging.LogOperationStart(logger, op.Kind.String())
	defer done()

	// Requested → Staged
	var oldDef types.AliasDefinition
	var hadOld bool
	var finalDef types.AliasDefinition

	change, err := r.store.Stage(func(aliases map[string]types.AliasDefinition) error {
		oldDef, hadOld = aliases[op.Name]
		now := r.now().UTC()

		switch op.Kind {
		case OpAdd:
			if hadOld {
				return errors.Newf(errors.ErrAlreadyExists, "alias %q already exists", op.Name).
					WithDetail("alias", op.Name)
			}
			finalDef = op.Def
			finalDef.Name = op.Name
			finalDef.CreatedAt = now
			finalDef.UpdatedAt = now
			aliases[op.Name] = finalDef

		case OpUpdate:
			if !hadOld {
				return errors.Newf(errors.ErrNotFound, "alias %q not found", op.Name).
					WithDetail("alias", op.Name)
			}
			finalDef = op.Def
			finalDef.Name = op.Name
			finalDef.CreatedAt = oldDef.CreatedAt
			finalDef.UpdatedAt = now
			aliases[op.Name] = finalDef

		case OpRemove:
			if !hadOld {
				return errors.Newf(errors.ErrNotFound, "alias %q not found", op.Name).
					WithDetail("alias", op.Name)
			}
			delete(aliases, op.Name)

		case OpRename:
			if !hadOld {
				return errors.Newf(errors.ErrNotFound, "alias %q not found", op.Name).
					WithDetail("alias", op.Name)
			}
			if _, taken := aliases[op.NewName]; taken {
				return errors.Newf(errors.ErrAlreadyExists, "alias %q already exists", op.NewName).
					WithDetail("alias", op.NewName)
			}
			finalDef = oldDef
			finalDef.Name = op.NewName
			finalDef.UpdatedAt = now
			delete(aliases, op.Name)
			aliases[op.NewName] = finalDef
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("state", types.StateStaged.String()).Msg("State reached")

	// Staged → Materialized, recording how to undo each artifact mutation.
	var undo []func(context.Context) error

	switch op.Kind {
	case OpAdd:
		if _, err := r.materializer.Materialize(ctx, finalDef); err != nil {
			return r.rollback(ctx, op, change, undo, err)
		}
		undo = append(undo, func(ctx context.Context) error {
			return r.materializer.Remove(ctx, finalDef.Name)
		})

	case OpUpdate:
		if _, err := r.materializer.Materialize(ctx, finalDef); err != nil {
			return r.rollback(ctx, op, change, undo, err)
		}
		undo = append(undo, func(ctx context.Context) error {
			_, err := r.materializer.Materialize(ctx, oldDef)
			return err
		})

	case OpRemove:
		if err := r.materializer.Remove(ctx, op.Name); err != nil {
			return r.rollback(ctx, op, change, undo, err)
		}
		undo = append(undo, func(ctx context.Context) error {
			_, err := r.materializer.Materialize(ctx, oldDef)
			return err
		})

	case OpRename:
		if err := r.materializer.Remove(ctx, op.Name); err != nil {
			return r.rollback(ctx, op, change, undo, err)
		}
		undo = append(undo, func(ctx context.Context) error {
			_, err := r.materializer.Materialize(ctx, oldDef)
			return err
		})
		if _, err := r.materializer.Materialize(ctx, finalDef); err != nil {
			return r.rollback(ctx, op, change, undo, err)
		}
		undo = append(undo, func(ctx context.Context) error {
			return r.materializer.Remove(ctx, finalDef.Name)
		})
	}
	logger.Debug().Str("state", types.StateMaterialized.String()).Msg("State reached")

	// Materialized → Installed. Removal needs no path entry mutation.
	var elevated bool
	var denied error
	if op.Kind != OpRemove {
		res, err := r.installer.Apply(ctx, installer.PathEntry{Dir: r.binDir})
		switch {
		case err == nil:
			elevated = res.Elevated
		case errors.IsErrorCode(err, errors.ErrElevationDenied):
			// Defined but not yet installed; keep the definition.
			denied = err
		default:
			return r.rollback(ctx, op, change, undo, err)
		}
	}
	logger.Debug().Str("state", types.StateInstalled.String()).Msg("State reached")

	// Installed → Committed. A commit is uninterruptible once begun.
	if r.dryRun {
		_ = r.store.Rollback(change)
		logger.Info().Msg("Dry run, would commit")
	} else if err := r.store.Commit(change); err != nil {
		return r.rollback(ctx, op, change, undo, err)
	} else {
		logger.Info().Str("state", types.StateCommitted.String()).Msg("Operation committed")
	}

	result := &Result{
		State:    types.StateCommitted,
		Alias:    primaryAlias(op),
		Elevated: elevated,
	}
	if denied != nil {
		result.Warning = "alias saved, but its directory is not on the search path yet; run 'cmdlink refresh' once elevation can be granted"
		return result, denied
	}
	return result, nil
}

func primaryAlias(op Operation) string {
	if op.Kind == OpRename {
		return op.NewName
	}
	return op.Name
}

// rollback undoes already-materialized artifacts in reverse order, then
// discards the staged change. A failure during undo ends the operation in
// PartiallyApplied, the one condition that must always reach the user.
func (r *Reconciler) rollback(ctx context.Context, op Operation, change *store.Change, undo []func(context.Context) error, cause error) (*Result, error) {
	for i := len(undo) - 1; i >= 0; i-- {
		if undoErr := undo[i](ctx); undoErr != nil {
			_ = r.store.Rollback(change)
			r.logger.Error().Err(undoErr).Str("alias", op.Name).
				Msg("Rollback failed partway; store and artifacts disagree")
			return &Result{
					State:   types.StatePartiallyApplied,
					Alias:   op.Name,
					Warning: "store and generated shims disagree; run 'cmdlink refresh' to reconcile",
				}, errors.Wrapf(cause, errors.ErrPartiallyApplied,
					"operation failed and rollback for alias %q failed too (%v)", op.Name, undoErr)
		}
	}
	_ = r.store.Rollback(change)
	r.logger.Warn().Err(cause).Str("alias", op.Name).Msg("Operation rolled back")
	return &Result{State: types.StateRolledBack, Alias: op.Name}, cause
}

// RefreshResult reports what a repair pass changed.
type RefreshResult struct {
	// Materialized lists aliases whose shims were written (missing or stale).
	Materialized []string

	// Removed lists orphan shims deleted because no definition backs them.
	Removed []string

	// PathChanged is true when the search-path entry had to be (re)applied.
	PathChanged bool

	// Elevated is true when applying the path entry required elevation.
	Elevated bool
}

// Refresh re-derives every artifact from the current store contents: stale
// or missing shims are regenerated, orphans are deleted, and the path entry
// is re-applied. It is the manual reconciliation pass for PartiallyApplied
// states and the recovery path after a denied elevation.
func (r *Reconciler) Refresh(ctx context.Context) (*RefreshResult, error) {
	defs, err := r.store.List()
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{}
	known := make(map[string]bool, len(defs))

	for _, def := range defs {
		known[def.Name] = true
		stale, err := r.materializer.IsStale(def)
		if err != nil {
			return result, err
		}
		if !stale {
			continue
		}
		if _, err := r.materializer.Materialize(ctx, def); err != nil {
			return result, err
		}
		result.Materialized = append(result.Materialized, def.Name)
	}

	existing, err := r.materializer.List()
	if err != nil {
		return result, err
	}
	for _, name := range existing {
		if known[name] {
			continue
		}
		if err := r.materializer.Remove(ctx, name); err != nil {
			return result, err
		}
		result.Removed = append(result.Removed, name)
	}

	if len(defs) > 0 {
		res, err := r.installer.Apply(ctx, installer.PathEntry{Dir: r.binDir})
		if err != nil {
			return result, err
		}
		result.PathChanged = res.Changed
		result.Elevated = res.Elevated
	}

	r.logger.Info().
		Int("materialized", len(result.Materialized)).
		Int("removed", len(result.Removed)).
		Msg("Refresh completed")
	return result, nil
}
