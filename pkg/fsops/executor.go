// Package fsops executes shim filesystem mutations as a validated synthfs
// pipeline. Batching writes and deletes through one pipeline gives the shim
// generator pre-validation of every mutation and a single failure point,
// which the reconciler relies on for rollback.
package fsops

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"

	"github.com/ehuff700/cmdlink/pkg/errors"
	"github.com/ehuff700/cmdlink/pkg/logging"
)

// OpKind identifies a filesystem mutation.
type OpKind int

const (
	// KindCreateDir ensures a directory exists.
	KindCreateDir OpKind = iota

	// KindWriteFile creates or replaces a file with fixed content and mode.
	KindWriteFile

	// KindDeleteFile removes a file.
	KindDeleteFile
)

// Op is a single filesystem mutation to be applied through the pipeline.
type Op struct {
	Kind    OpKind
	Path    string
	Content []byte
	Mode    fs.FileMode
}

// CreateDir returns an op that ensures dir exists.
func CreateDir(dir string) Op {
	return Op{Kind: KindCreateDir, Path: dir, Mode: 0755}
}

// WriteFile returns an op that creates or replaces path with content.
func WriteFile(path string, content []byte, mode fs.FileMode) Op {
	return Op{Kind: KindWriteFile, Path: path, Content: content, Mode: mode}
}

// DeleteFile returns an op that removes path.
func DeleteFile(path string) Op {
	return Op{Kind: KindDeleteFile, Path: path}
}

// Executor applies filesystem ops through a synthfs pipeline.
type Executor struct {
	logger      zerolog.Logger
	dryRun      bool
	allowedRoot string
	filesystem  synthfs.FileSystem
}

// NewExecutor creates an executor that refuses to mutate anything outside
// allowedRoot. In dry-run mode operations are logged but not executed.
func NewExecutor(allowedRoot string, dryRun bool) *Executor {
	return &Executor{
		logger:      logging.GetLogger("fsops"),
		dryRun:      dryRun,
		allowedRoot: filepath.Clean(allowedRoot),
		filesystem:  filesystem.NewOSFileSystem("/"),
	}
}

// Apply validates and executes the given ops as one pipeline.
func (e *Executor) Apply(ctx context.Context, ops []Op) error {
	if len(ops) == 0 {
		return nil
	}

	if e.dryRun {
		for _, op := range ops {
			e.logger.Info().
				Str("kind", kindName(op.Kind)).
				Str("path", op.Path).
				Msg("Would apply filesystem operation")
		}
		return nil
	}

	pipeline := synthfs.NewMemPipeline()
	for _, op := range ops {
		if err := e.validatePath(op.Path); err != nil {
			return err
		}
		synthOp, err := e.convert(op)
		if err != nil {
			return err
		}
		if err := pipeline.Add(synthOp); err != nil {
			return errors.Wrapf(err, errors.ErrGeneration,
				"failed to add %s operation for %s to pipeline", kindName(op.Kind), op.Path)
		}
	}

	executor := synthfs.NewExecutor()
	e.logger.Debug().Int("operations", len(ops)).Msg("Executing filesystem pipeline")

	result := executor.Run(ctx, pipeline, e.filesystem)
	if result.GetError() != nil {
		return errors.Wrap(result.GetError(), errors.ErrGeneration,
			"filesystem pipeline failed")
	}
	return nil
}

func (e *Executor) validatePath(path string) error {
	clean := filepath.Clean(path)
	if clean != e.allowedRoot && !strings.HasPrefix(clean, e.allowedRoot+string(filepath.Separator)) {
		return errors.Newf(errors.ErrInvalidInput,
			"refusing to mutate %s outside managed root %s", clean, e.allowedRoot)
	}
	return nil
}

func (e *Executor) convert(op Op) (synthfs.Operation, error) {
	relPath, err := filepath.Rel("/", op.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path: %s", op.Path)
	}

	switch op.Kind {
	case KindCreateDir:
		opID := core.OperationID(fmt.Sprintf("create-dir-%s", op.Path))
		createOp := operations.NewCreateDirectoryOperation(opID, relPath)
		createOp.SetItem(&directoryItem{path: relPath, mode: op.Mode})
		return synthfs.NewOperationsPackageAdapter(createOp), nil

	case KindWriteFile:
		opID := core.OperationID(fmt.Sprintf("write-file-%s", op.Path))
		createOp := operations.NewCreateFileOperation(opID, relPath)
		createOp.SetItem(&fileItem{path: relPath, content: op.Content, mode: op.Mode})
		return synthfs.NewOperationsPackageAdapter(createOp), nil

	case KindDeleteFile:
		opID := core.OperationID(fmt.Sprintf("delete-%s", op.Path))
		deleteOp := operations.NewDeleteOperation(opID, relPath)
		return synthfs.NewOperationsPackageAdapter(deleteOp), nil

	default:
		return nil, errors.Newf(errors.ErrInternal, "unsupported operation kind: %d", op.Kind)
	}
}

func kindName(k OpKind) string {
	switch k {
	case KindCreateDir:
		return "create-dir"
	case KindWriteFile:
		return "write-file"
	case KindDeleteFile:
		return "delete-file"
	default:
		return "unknown"
	}
}

// fileItem implements the item interface needed for file operations
type fileItem struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (f *fileItem) Path() string       { return f.path }
func (f *fileItem) Type() string       { return "file" }
func (f *fileItem) Content() []byte    { return f.content }
func (f *fileItem) Mode() fs.FileMode  { return f.mode }
func (f *fileItem) IsDir() bool        { return false }
func (f *fileItem) ModTime() time.Time { return time.Now() }
func (f *fileItem) Size() int64        { return int64(len(f.content)) }

// directoryItem implements the item interface needed for directory operations
type directoryItem struct {
	path string
	mode fs.FileMode
}

func (d *directoryItem) Path() string       { return d.path }
func (d *directoryItem) Type() string       { return "directory" }
func (d *directoryItem) Mode() fs.FileMode  { return d.mode }
func (d *directoryItem) IsDir() bool        { return true }
func (d *directoryItem) ModTime() time.Time { return time.Now() }
func (d *directoryItem) Size() int64        { return 0 }
