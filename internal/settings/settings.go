// Package settings loads the project settings naming the root urlconf.
package settings

import (
	"errors"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/samber/lo"
	"golang.org/x/xerrors"
)

// EnvPrefix prefixes the environment variables overriding settings, e.g.
// APIDOC_ROOT_URLCONF.
const EnvPrefix = "APIDOC"

// DefaultPath is the settings file used when none is given.
const DefaultPath = "apidoc.toml"

// ErrMissingURLConf is returned when a settings file names no root urlconf.
var ErrMissingURLConf = errors.New("root_urlconf is not set")

// Settings describes one project.
type Settings struct {
	// RootURLConf is the urlconf file, relative to the settings file.
	RootURLConf string `toml:"root_urlconf" envconfig:"ROOT_URLCONF"`
	// Dir is the directory the go tool runs in. Defaults to the directory of
	// the settings file.
	Dir string `toml:"dir" envconfig:"DIR"`
	// Module overrides the main module path used for application names.
	Module string `toml:"module" envconfig:"MODULE"`
	// Apps is the default application allow-list.
	Apps []string `toml:"apps" envconfig:"APPS"`
	// Locale selects the table headings.
	Locale string `toml:"locale" envconfig:"LOCALE"`

	path string
}

// Load reads the settings file at path and applies environment overrides.
func Load(path string) (*Settings, error) {
	s := &Settings{path: path}
	if _, err := toml.DecodeFile(path, s); err != nil {
		return nil, xerrors.Errorf("reading settings %s: %w", path, err)
	}
	if err := envconfig.Process(EnvPrefix, s); err != nil {
		return nil, xerrors.Errorf("applying %s_* overrides to %s: %w", EnvPrefix, path, err)
	}
	if s.RootURLConf == "" {
		return nil, xerrors.Errorf("settings %s does not have the attribute root_urlconf: %w", path, ErrMissingURLConf)
	}
	return s, nil
}

// Path returns the file the settings were read from.
func (s *Settings) Path() string { return s.path }

// URLConfPath returns the root urlconf path resolved against the settings
// file.
func (s *Settings) URLConfPath() string {
	return s.resolve(s.RootURLConf)
}

// WorkDir returns the directory handler packages are resolved from.
func (s *Settings) WorkDir() string {
	if s.Dir == "" {
		return filepath.Dir(s.path)
	}
	return s.resolve(s.Dir)
}

// MergeApps returns the settings allow-list extended with extra, without
// duplicates.
func (s *Settings) MergeApps(extra []string) []string {
	apps := append(append([]string{}, s.Apps...), extra...)
	return lo.Uniq(lo.Compact(apps))
}

func (s *Settings) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(s.path), p)
}
