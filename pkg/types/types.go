// Package types defines the core domain types shared across cmdlink:
// alias definitions, shim artifacts, and the reconciler's operation states.
package types

import (
	"os"
	"strings"
	"time"

	"github.com/ehuff700/cmdlink/pkg/errors"
)

// AliasDefinition is the unit of persistence: a short name bound to a fixed
// command invocation. The durable store is the single source of truth;
// generated shims are a derived projection of it.
type AliasDefinition struct {
	// Name is the alias as typed into a shell. It is the key in the store
	// and never serialized inside the alias table itself.
	Name string `toml:"-"`

	// Exec is the executable path or name the alias resolves to.
	Exec string `toml:"exec"`

	// Args are fixed leading arguments prepended to any user-supplied ones.
	Args []string `toml:"args,omitempty"`

	// Dir is the working directory for the invocation. Empty inherits the
	// caller's current directory.
	Dir string `toml:"dir,omitempty"`

	// Env is overlaid on the inherited environment; override wins.
	Env map[string]string `toml:"env,omitempty"`

	// Description is free-form text shown in listings.
	Description string `toml:"description,omitempty"`

	CreatedAt time.Time `toml:"created_at"`
	UpdatedAt time.Time `toml:"updated_at"`
}

// Validate checks that the definition can be materialized on any platform.
func (d AliasDefinition) Validate() error {
	if err := ValidateName(d.Name); err != nil {
		return err
	}
	if strings.TrimSpace(d.Exec) == "" {
		return errors.Newf(errors.ErrInvalidInput, "alias %q has no target executable", d.Name)
	}
	for key := range d.Env {
		if !validEnvKey(key) {
			return errors.Newf(errors.ErrInvalidInput, "alias %q has invalid environment variable name %q", d.Name, key)
		}
	}
	return nil
}

func validEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// CommandLine renders the target invocation for display purposes.
func (d AliasDefinition) CommandLine() string {
	if len(d.Args) == 0 {
		return d.Exec
	}
	return d.Exec + " " + strings.Join(d.Args, " ")
}

// ValidateName rejects names the OS command lookup could not resolve:
// empty names, whitespace, and path separators.
func ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "alias name must not be empty")
	}
	if name == "." || name == ".." {
		return errors.Newf(errors.ErrInvalidInput, "alias name %q is reserved", name)
	}
	if strings.ContainsAny(name, "/\\") {
		return errors.Newf(errors.ErrInvalidInput, "alias name %q contains a path separator", name)
	}
	for _, r := range name {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return errors.Newf(errors.ErrInvalidInput, "alias name %q contains whitespace", name)
		}
	}
	return nil
}

// ShimArtifact is the OS-visible object that makes an alias invocable: a
// generated script on disk. It must never exist without a corresponding
// AliasDefinition in the store.
type ShimArtifact struct {
	// Alias is the name of the definition the artifact was derived from.
	Alias string

	// Path is the absolute location of the artifact.
	Path string

	// Content is the deterministic rendering of the definition.
	Content []byte

	// Mode is the file mode the artifact is written with.
	Mode os.FileMode
}

// OpState is a reconciler state for one alias operation.
type OpState int

const (
	StateRequested OpState = iota
	StateStaged
	StateMaterialized
	StateInstalled
	StateCommitted
	StateRolledBack
	StatePartiallyApplied
)

// String returns a stable name for logging and test assertions.
func (s OpState) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateStaged:
		return "staged"
	case StateMaterialized:
		return "materialized"
	case StateInstalled:
		return "installed"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	case StatePartiallyApplied:
		return "partially_applied"
	default:
		return "unknown"
	}
}
