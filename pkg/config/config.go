// Package config loads cmdlink settings from layered sources: embedded
// defaults, then the user's config.toml, then CMDLINK_* environment
// variables. Later layers win.
package config

import (
	_ "embed"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ehuff700/cmdlink/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultSettings []byte

// DefaultSettingsContent returns the built-in defaults as TOML, suitable
// for seeding a fresh config.toml.
func DefaultSettingsContent() string {
	return string(defaultSettings)
}

// rawBytesProvider implements the koanf provider over in-memory bytes.
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "not implemented")
}

// Settings holds the user-tunable knobs.
type Settings struct {
	// ShimDir overrides where generated shims are written. Empty means
	// the default data directory.
	ShimDir string `koanf:"shim_dir"`

	// RCFile overrides which shell startup file receives the managed
	// search-path block on POSIX systems. Empty means autodetect.
	RCFile string `koanf:"rc_file"`

	// ElevationTimeout bounds how long an elevation prompt may sit
	// unanswered before the attempt counts as denied.
	ElevationTimeout time.Duration `koanf:"elevation_timeout"`

	// Color is the output color mode: auto, always, or never.
	Color string `koanf:"color"`
}

func (s *Settings) validate() error {
	switch s.Color {
	case "auto", "always", "never":
	default:
		return errors.Newf(errors.ErrConfigParse,
			"color must be auto, always, or never, got %q", s.Color)
	}
	if s.ElevationTimeout <= 0 {
		return errors.Newf(errors.ErrConfigParse,
			"elevation_timeout must be positive, got %s", s.ElevationTimeout)
	}
	return nil
}

// Load assembles Settings from the embedded defaults, the settings file at
// path (skipped if absent), and CMDLINK_* environment variables.
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default settings")
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"failed to load settings from %s", path)
			}
		}
	}

	err := k.Load(env.Provider("CMDLINK_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CMDLINK_"))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var settings Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &settings,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &settings, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal settings")
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}
