// Package store implements durable persistence for alias definitions.
//
// The store is a single TOML file holding the full alias set. Writes are
// transactional: a change is staged in memory against a snapshot of the
// durable state, then committed by atomically replacing the file. A content
// checksum taken at stage time is re-verified at commit time, so a
// concurrent edit from another process fails the commit with CONFLICT
// instead of being silently overwritten.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/ehuff700/cmdlink/pkg/errors"
	"github.com/ehuff700/cmdlink/pkg/logging"
	"github.com/ehuff700/cmdlink/pkg/types"
)

// document is the serialized shape of the alias file.
type document struct {
	Aliases map[string]types.AliasDefinition `toml:"aliases"`
}

// Snapshot is a point-in-time view of the durable alias set.
type Snapshot struct {
	// Aliases is keyed by alias name. Names on the definitions are filled
	// in from the keys on load.
	Aliases map[string]types.AliasDefinition

	// checksum identifies the durable bytes the snapshot was read from.
	// Empty means the file did not exist.
	checksum string
}

// Change is a staged transactional write: the desired full alias set plus
// the checksum of the durable state it was derived from. It has no durable
// effect until Commit.
type Change struct {
	base    string
	aliases map[string]types.AliasDefinition
}

// Aliases exposes the staged alias set, primarily for the shim generator to
// materialize from before the change is committed.
func (c *Change) Aliases() map[string]types.AliasDefinition {
	return c.aliases
}

// Store persists the alias definition set in a single TOML file.
type Store struct {
	path   string
	logger zerolog.Logger
}

// New creates a Store backed by the given file path. The file may not exist
// yet; an absent file reads as an empty alias set.
func New(path string) *Store {
	return &Store{
		path:   path,
		logger: logging.GetLogger("store"),
	}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the durable state into a snapshot.
func (s *Store) Load() (*Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &Snapshot{Aliases: map[string]types.AliasDefinition{}}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreRead, "failed to read alias store %s", s.path)
	}

	var doc document
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreParse, "failed to parse alias store %s", s.path)
	}
	if doc.Aliases == nil {
		doc.Aliases = map[string]types.AliasDefinition{}
	}
	for name, def := range doc.Aliases {
		def.Name = name
		doc.Aliases[name] = def
	}

	return &Snapshot{
		Aliases:  doc.Aliases,
		checksum: checksum(raw),
	}, nil
}

// Get returns the definition for name, or NOT_FOUND.
func (s *Store) Get(name string) (types.AliasDefinition, error) {
	snap, err := s.Load()
	if err != nil {
		return types.AliasDefinition{}, err
	}
	def, ok := snap.Aliases[name]
	if !ok {
		return types.AliasDefinition{}, errors.Newf(errors.ErrNotFound, "alias %q not found", name).
			WithDetail("alias", name)
	}
	return def, nil
}

// List returns all definitions sorted by name.
func (s *Store) List() ([]types.AliasDefinition, error) {
	snap, err := s.Load()
	if err != nil {
		return nil, err
	}

	defs := make([]types.AliasDefinition, 0, len(snap.Aliases))
	for _, def := range snap.Aliases {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}

// Stage begins a transactional write. The mutate callback receives a copy of
// the current alias set and edits it into the desired state; the returned
// Change is not durable until Commit.
func (s *Store) Stage(mutate func(aliases map[string]types.AliasDefinition) error) (*Change, error) {
	snap, err := s.Load()
	if err != nil {
		return nil, err
	}

	staged := make(map[string]types.AliasDefinition, len(snap.Aliases))
	for name, def := range snap.Aliases {
		staged[name] = def
	}

	if err := mutate(staged); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("aliases", len(staged)).
		Str("base", snap.checksum).
		Msg("Staged store change")

	return &Change{base: snap.checksum, aliases: staged}, nil
}

// Commit makes a staged change durable. The durable file is verified against
// the checksum captured at stage time; a mismatch means another process
// modified the store and the commit fails with CONFLICT. The replacement is
// all-or-nothing: content is written to a temp file in the same directory
// and renamed over the store.
func (s *Store) Commit(c *Change) error {
	current, err := s.currentChecksum()
	if err != nil {
		return err
	}
	if current != c.base {
		return errors.Newf(errors.ErrConflict,
			"alias store %s changed since the operation started", s.path).
			WithDetail("staged_from", c.base).
			WithDetail("found", current)
	}

	raw, err := toml.Marshal(document{Aliases: c.aliases})
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to serialize alias store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to create store directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".aliases-*.toml")
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to create temp store file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to write temp store file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to close temp store file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrStoreCommit, "failed to replace alias store %s", s.path)
	}

	s.logger.Debug().Int("aliases", len(c.aliases)).Msg("Committed store change")
	return nil
}

// Rollback discards a staged change. Staging has no durable effect, so
// restoring prior state is a no-op; the method exists so callers make the
// discard explicit.
func (s *Store) Rollback(c *Change) error {
	if c == nil {
		return nil
	}
	s.logger.Debug().Str("base", c.base).Msg("Rolled back staged store change")
	c.aliases = nil
	return nil
}

func (s *Store) currentChecksum() (string, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrStoreRead, "failed to read alias store %s", s.path)
	}
	return checksum(raw), nil
}

func checksum(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
