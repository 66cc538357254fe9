// Package installer performs the privileged OS mutation cmdlink needs: making
// the shim directory a segment of the platform's command-search table.
//
// The table is externally owned shared state (other tools edit it too), so it
// is only ever touched through the narrow Table interface, one entry at a
// time. Elevation is an explicit two-step protocol: the mutation is first
// attempted with current privileges, and only an access-denied outcome
// triggers a re-request through the platform Elevator. A user who declines
// gets a typed ELEVATION_DENIED, never a silent drop.
package installer

import (
	"context"
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehuff700/cmdlink/pkg/errors"
	"github.com/ehuff700/cmdlink/pkg/logging"
)

// PathEntry is the privileged change: one directory that must be present in
// the command-search table.
type PathEntry struct {
	// Dir is the shim directory.
	Dir string
}

// Result reports how an apply concluded.
type Result struct {
	// Changed is false when the entry was already present (idempotent no-op).
	Changed bool

	// Elevated is true when the mutation went through the elevation path.
	Elevated bool
}

// Table is the platform command-search table, accessed one entry at a time.
type Table interface {
	// Contains reports whether the entry is already present.
	Contains(entry PathEntry) (bool, error)

	// Add inserts the entry with the current process privileges. An
	// access-denied outcome must be reported as fs.ErrPermission (wrapped).
	Add(entry PathEntry) error
}

// Elevator re-runs the minimal mutation with elevated rights, prompting the
// user for authorization. Implementations must honor context cancellation so
// the prompt wait stays bounded.
type Elevator interface {
	AddElevated(ctx context.Context, entry PathEntry) error
}

// Installer applies privileged changes with the apply-or-elevate protocol.
type Installer interface {
	// Apply ensures the entry is present. Re-applying a present entry is a
	// successful no-op.
	Apply(ctx context.Context, entry PathEntry) (Result, error)

	// IsApplied reports whether the entry is present without mutating.
	IsApplied(entry PathEntry) (bool, error)
}

// DefaultElevationTimeout bounds how long an elevation prompt may sit
// unanswered before it resolves as denied.
const DefaultElevationTimeout = 2 * time.Minute

type engine struct {
	table    Table
	elevator Elevator
	timeout  time.Duration
	dryRun   bool
	logger   zerolog.Logger
}

// New creates the platform installer for the current OS. rcFile overrides
// which shell startup file receives the path entry on POSIX systems; empty
// means autodetect. Windows ignores it.
func New(rcFile string, timeout time.Duration, dryRun bool) Installer {
	table, elevator := newPlatformParts(rcFile)
	return NewWithParts(table, elevator, timeout, dryRun)
}

// NewWithParts assembles an installer from explicit parts.
func NewWithParts(table Table, elevator Elevator, timeout time.Duration, dryRun bool) Installer {
	if timeout <= 0 {
		timeout = DefaultElevationTimeout
	}
	return &engine{
		table:    table,
		elevator: elevator,
		timeout:  timeout,
		dryRun:   dryRun,
		logger:   logging.GetLogger("installer"),
	}
}

func (e *engine) IsApplied(entry PathEntry) (bool, error) {
	return e.table.Contains(entry)
}

func (e *engine) Apply(ctx context.Context, entry PathEntry) (Result, error) {
	present, err := e.table.Contains(entry)
	if err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrApply,
			"failed to inspect command-search table for %s", entry.Dir)
	}
	if present {
		e.logger.Debug().Str("dir", entry.Dir).Msg("Path entry already applied")
		return Result{Changed: false}, nil
	}

	if e.dryRun {
		e.logger.Info().Str("dir", entry.Dir).Msg("Would add path entry")
		return Result{Changed: true}, nil
	}

	// Step one: attempt with current privileges.
	err = e.table.Add(entry)
	if err == nil {
		e.logger.Info().Str("dir", entry.Dir).Msg("Added path entry")
		return Result{Changed: true}, nil
	}
	if !isAccessDenied(err) {
		return Result{}, errors.Wrapf(err, errors.ErrApply,
			"failed to add %s to command-search table", entry.Dir)
	}

	// Step two: re-request through elevation with a bounded wait.
	e.logger.Info().Str("dir", entry.Dir).Msg("Access denied, requesting elevation")
	elevCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	err = e.elevator.AddElevated(elevCtx, entry)
	switch {
	case err == nil:
		e.logger.Info().Str("dir", entry.Dir).Msg("Added path entry via elevation")
		return Result{Changed: true, Elevated: true}, nil
	case errors.IsErrorCode(err, errors.ErrElevationDenied):
		return Result{}, err
	case elevCtx.Err() != nil:
		// An unanswered prompt resolves as denied, not as a hang.
		return Result{}, errors.Wrapf(err, errors.ErrElevationDenied,
			"elevation prompt for %s was not authorized in time", entry.Dir)
	default:
		return Result{}, errors.Wrapf(err, errors.ErrApply,
			"elevated mutation for %s failed", entry.Dir)
	}
}

func isAccessDenied(err error) bool {
	return stderrors.Is(err, fs.ErrPermission)
}
