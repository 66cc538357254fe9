// Package importcmd implements the import command: bulk-register aliases
// from a YAML manifest. Each entry is either a full definition or a
// shorthand command line:
//
//	ll:
//	  exec: ls
//	  args: ["-la"]
//	  description: long listing
//	gs: git status
package importcmd

import (
	"context"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ehuff700/cmdlink/pkg/commands/internal"
	"github.com/ehuff700/cmdlink/pkg/errors"
	"github.com/ehuff700/cmdlink/pkg/logging"
	"github.com/ehuff700/cmdlink/pkg/reconciler"
	"github.com/ehuff700/cmdlink/pkg/types"
)

// Options defines the options for the Import command.
type Options struct {
	// Path is the YAML manifest to read.
	Path string

	// DryRun logs mutations instead of performing them.
	DryRun bool
}

// Result reports what Import did.
type Result struct {
	// Added lists aliases registered from the manifest.
	Added []string

	// Skipped lists manifest aliases that already existed.
	Skipped []string

	// Warning is set when the search-path entry is still pending.
	Warning string
}

// manifestEntry accepts either a mapping or a shorthand scalar holding a
// whitespace-separated command line.
type manifestEntry struct {
	Exec        string            `yaml:"exec"`
	Args        []string          `yaml:"args"`
	Dir         string            `yaml:"dir"`
	Env         map[string]string `yaml:"env"`
	Description string            `yaml:"description"`
}

func (e *manifestEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		fields := strings.Fields(node.Value)
		if len(fields) == 0 {
			return errors.New(errors.ErrInvalidInput, "shorthand entry is empty")
		}
		e.Exec = fields[0]
		e.Args = fields[1:]
		return nil
	}

	// Indirect through a plain struct so decoding does not recurse back
	// into this method.
	type plain manifestEntry
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = manifestEntry(p)
	return nil
}

// Import registers every alias in the manifest that does not exist yet.
func Import(ctx context.Context, opts Options) (*Result, error) {
	log := logging.GetLogger("commands.import")
	log.Debug().Str("command", "Import").Str("path", opts.Path).Msg("Executing command")

	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to read manifest %s", opts.Path)
	}

	var manifest map[string]manifestEntry
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to parse manifest %s", opts.Path)
	}

	rt, err := internal.NewRuntime(opts.DryRun)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(manifest))
	for name := range manifest {
		names = append(names, name)
	}
	sort.Strings(names)

	result := &Result{}
	for _, name := range names {
		entry := manifest[name]
		outcome, err := rt.Reconciler.Apply(ctx, reconciler.Operation{
			Kind: reconciler.OpAdd,
			Name: name,
			Def: types.AliasDefinition{
				Exec:        entry.Exec,
				Args:        entry.Args,
				Dir:         entry.Dir,
				Env:         entry.Env,
				Description: entry.Description,
			},
		})
		switch {
		case err == nil:
			result.Added = append(result.Added, name)
		case errors.IsErrorCode(err, errors.ErrAlreadyExists):
			result.Skipped = append(result.Skipped, name)
		case errors.IsErrorCode(err, errors.ErrElevationDenied):
			// The alias itself committed; keep going and surface the
			// pending path entry once.
			result.Added = append(result.Added, name)
			result.Warning = outcome.Warning
		default:
			return result, errors.Wrapf(err, errors.GetErrorCode(err),
				"import stopped at alias %q", name)
		}
	}

	log.Info().Str("command", "Import").
		Int("added", len(result.Added)).
		Int("skipped", len(result.Skipped)).
		Msg("Command finished")
	return result, nil
}
