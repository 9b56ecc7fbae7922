package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/mawi1/oondl/internal/domain"
	"github.com/mawi1/oondl/internal/ports"
)

const fileName = "settings.yaml"

// Store keeps the TUI form settings in a YAML file.
type Store struct {
	path     string
	defaults domain.Settings
}

type Option func(*Store)

// WithPath overrides the settings file location.
func WithPath(p string) Option {
	return func(s *Store) { s.path = p }
}

// WithDefaults sets the values returned when no settings file exists.
func WithDefaults(d domain.Settings) Option {
	return func(s *Store) { s.defaults = d }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		path:     filepath.Join(xdg.ConfigHome, "oondl", fileName),
		defaults: domain.Settings{Quality: domain.QualityHigh},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.SettingsStore = (*Store)(nil)

func (s *Store) Path() string { return s.path }

// Load returns the stored settings on top of the defaults. A missing file is not an error.
func (s *Store) Load() (domain.Settings, error) {
	out := s.defaults

	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, &domain.OpError{
			Op:   "settings.load",
			Kind: domain.KindFile,
			Path: s.path,
			Err:  err,
		}
	}

	var y yamlSettings
	if err := yaml.Unmarshal(b, &y); err != nil {
		return out, &domain.OpError{
			Op:   "settings.load",
			Kind: domain.KindInvalidConfig,
			Path: s.path,
			Err:  err,
		}
	}

	if strings.TrimSpace(y.Quality) != "" {
		q, err := domain.ParseQuality(y.Quality)
		if err != nil {
			return out, &domain.OpError{
				Op:   "settings.load",
				Kind: domain.KindInvalidConfig,
				Path: s.path,
				Err:  err,
			}
		}
		out.Quality = q
	}
	if strings.TrimSpace(y.DestDir) != "" {
		out.DestDir = y.DestDir
	}
	return out, nil
}

func (s *Store) Save(set domain.Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &domain.OpError{
			Op:   "settings.mkdir",
			Kind: domain.KindFile,
			Path: filepath.Dir(s.path),
			Err:  err,
		}
	}

	b, err := yaml.Marshal(yamlSettings{
		Quality: set.Quality.String(),
		DestDir: set.DestDir,
	})
	if err != nil {
		return &domain.OpError{
			Op:   "settings.marshal",
			Kind: domain.KindUnexpected,
			Path: s.path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return &domain.OpError{
			Op:   "settings.write",
			Kind: domain.KindFile,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "settings.rename",
			Kind: domain.KindFile,
			Path: s.path,
			Err:  err,
		}
	}
	return nil
}

type yamlSettings struct {
	Quality string `yaml:"quality"`
	DestDir string `yaml:"dest_dir"`
}
