// Package shim materializes alias definitions into OS-invocable artifacts.
//
// The platform divergence (POSIX shell scripts vs Windows batch files plus a
// privileged PATH table entry) is modeled as the Materializer capability
// interface; the reconciler depends only on the interface and the variant is
// selected at startup.
package shim

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ehuff700/cmdlink/pkg/errors"
	"github.com/ehuff700/cmdlink/pkg/fsops"
	"github.com/ehuff700/cmdlink/pkg/logging"
	"github.com/ehuff700/cmdlink/pkg/types"
)

// Materializer turns alias definitions into invocable artifacts and back.
type Materializer interface {
	// Materialize writes the artifact for def and returns it. Rendering is
	// deterministic, so re-materializing an unchanged definition rewrites
	// identical bytes.
	Materialize(ctx context.Context, def types.AliasDefinition) (types.ShimArtifact, error)

	// Remove deletes the artifact for name. Removing an absent artifact is
	// a successful no-op.
	Remove(ctx context.Context, name string) error

	// IsStale reports whether the on-disk artifact differs from what def
	// would render to. A missing artifact is stale.
	IsStale(def types.AliasDefinition) (bool, error)

	// ArtifactPath returns where the artifact for name lives.
	ArtifactPath(name string) string

	// List returns the alias names that currently have artifacts on disk,
	// whether or not the store still knows them.
	List() ([]string, error)
}

// New selects the platform materializer writing into binDir through exec.
func New(binDir string, exec *fsops.Executor) Materializer {
	return newPlatformMaterializer(binDir, exec)
}

// scriptMaterializer is the shared implementation for script-generating
// platforms; the variants differ only in extension, mode, and renderer.
type scriptMaterializer struct {
	binDir string
	ext    string
	mode   fs.FileMode
	render func(types.AliasDefinition) []byte
	fs     *fsops.Executor
	logger zerolog.Logger
}

func newScriptMaterializer(binDir, ext string, mode fs.FileMode, render func(types.AliasDefinition) []byte, exec *fsops.Executor) *scriptMaterializer {
	return &scriptMaterializer{
		binDir: binDir,
		ext:    ext,
		mode:   mode,
		render: render,
		fs:     exec,
		logger: logging.GetLogger("shim"),
	}
}

func (m *scriptMaterializer) ArtifactPath(name string) string {
	return filepath.Join(m.binDir, name+m.ext)
}

func (m *scriptMaterializer) Materialize(ctx context.Context, def types.AliasDefinition) (types.ShimArtifact, error) {
	if err := def.Validate(); err != nil {
		return types.ShimArtifact{}, err
	}

	artifact := types.ShimArtifact{
		Alias:   def.Name,
		Path:    m.ArtifactPath(def.Name),
		Content: m.render(def),
		Mode:    m.mode,
	}

	err := m.fs.Apply(ctx, []fsops.Op{
		fsops.CreateDir(m.binDir),
		fsops.WriteFile(artifact.Path, artifact.Content, artifact.Mode),
	})
	if err != nil {
		return types.ShimArtifact{}, errors.Wrapf(err, errors.ErrGeneration,
			"failed to write shim for alias %q", def.Name).WithDetail("alias", def.Name)
	}

	m.logger.Debug().Str("alias", def.Name).Str("path", artifact.Path).Msg("Materialized shim")
	return artifact, nil
}

func (m *scriptMaterializer) Remove(ctx context.Context, name string) error {
	path := m.ArtifactPath(name)
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		m.logger.Debug().Str("alias", name).Msg("Shim already absent")
		return nil
	}
	if !m.ownsFile(path) {
		m.logger.Warn().Str("alias", name).Str("path", path).
			Msg("File in shim directory was not generated here, leaving it alone")
		return nil
	}

	if err := m.fs.Apply(ctx, []fsops.Op{fsops.DeleteFile(path)}); err != nil {
		return errors.Wrapf(err, errors.ErrGeneration,
			"failed to remove shim for alias %q", name).WithDetail("alias", name)
	}

	m.logger.Debug().Str("alias", name).Str("path", path).Msg("Removed shim")
	return nil
}

func (m *scriptMaterializer) List() ([]string, error) {
	entries, err := os.ReadDir(m.binDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrGeneration,
			"failed to list shim directory %s", m.binDir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if m.ext != "" {
			if !strings.HasSuffix(name, m.ext) {
				continue
			}
			name = strings.TrimSuffix(name, m.ext)
		}
		if !m.ownsFile(filepath.Join(m.binDir, entry.Name())) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ownsFile reports whether the file at path carries the generated header.
// The shim directory may be shared with scripts the user keeps there
// themselves; anything without the header is never ours to touch.
func (m *scriptMaterializer) ownsFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	// The header sits on the second line, well within the first 256 bytes.
	buf := make([]byte, 256)
	n, _ := io.ReadFull(f, buf)
	return bytes.Contains(buf[:n], []byte(generatedHeader))
}

func (m *scriptMaterializer) IsStale(def types.AliasDefinition) (bool, error) {
	current, err := os.ReadFile(m.ArtifactPath(def.Name))
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrGeneration,
			"failed to read shim for alias %q", def.Name)
	}
	return !bytes.Equal(current, m.render(def)), nil
}
