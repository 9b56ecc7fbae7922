package yamlbatch

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mawi1/oondl/internal/domain"
)

// Item is one download listed in a batch file.
type Item struct {
	URL     domain.OonURL
	Quality domain.Quality
	DestDir string
}

// Batch is a parsed batch file.
type Batch struct {
	Items []Item
}

// Defaults fill in quality and destination where neither the item nor the file sets them.
type Defaults struct {
	Quality domain.Quality
	DestDir string
}

// Overrides replace the file-level quality and destination. Values set on an
// individual download still win.
type Overrides struct {
	Quality *domain.Quality
	DestDir string
}

type Loader struct {
	defaults  Defaults
	overrides Overrides
}

type Option func(*Loader)

func WithDefaults(d Defaults) Option {
	return func(l *Loader) { l.defaults = d }
}

func WithOverrides(o Overrides) Option {
	return func(l *Loader) { l.overrides = o }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{defaults: Defaults{Quality: domain.QualityHigh}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Load(path string) (Batch, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Batch{}, &domain.OpError{
			Op:   "yamlbatch.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var yb yamlBatch
	if err := yaml.Unmarshal(b, &yb); err != nil {
		return Batch{}, &domain.OpError{
			Op:   "yamlbatch.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return l.mapAndValidate(path, yb)
}

type yamlBatch struct {
	Quality   string         `yaml:"quality"`
	Dest      string         `yaml:"dest"`
	Downloads []yamlDownload `yaml:"downloads"`
}

type yamlDownload struct {
	URL     string `yaml:"url"`
	Quality string `yaml:"quality"`
	Dest    string `yaml:"dest"`
}

func (l *Loader) mapAndValidate(path string, yb yamlBatch) (Batch, error) {
	if len(yb.Downloads) == 0 {
		return Batch{}, invalidField(path, "downloads", "at least one download is required")
	}

	fileQuality := l.defaults.Quality
	if strings.TrimSpace(yb.Quality) != "" {
		q, err := domain.ParseQuality(yb.Quality)
		if err != nil {
			return Batch{}, invalidField(path, "quality", err.Error())
		}
		fileQuality = q
	}
	fileDest := l.defaults.DestDir
	if strings.TrimSpace(yb.Dest) != "" {
		fileDest = yb.Dest
	}
	if l.overrides.Quality != nil {
		fileQuality = *l.overrides.Quality
	}
	if l.overrides.DestDir != "" {
		fileDest = l.overrides.DestDir
	}

	out := Batch{Items: make([]Item, 0, len(yb.Downloads))}
	for i, d := range yb.Downloads {
		fieldPrefix := fmt.Sprintf("downloads[%d]", i)

		if strings.TrimSpace(d.URL) == "" {
			return Batch{}, invalidField(path, fieldPrefix+".url", "url is required")
		}
		u, err := domain.ParseOonURL(d.URL)
		if err != nil {
			return Batch{}, invalidField(path, fieldPrefix+".url", fmt.Sprintf("not an ORF ON video url: %q", d.URL))
		}

		item := Item{URL: u, Quality: fileQuality, DestDir: fileDest}
		if strings.TrimSpace(d.Quality) != "" {
			q, err := domain.ParseQuality(d.Quality)
			if err != nil {
				return Batch{}, invalidField(path, fieldPrefix+".quality", err.Error())
			}
			item.Quality = q
		}
		if strings.TrimSpace(d.Dest) != "" {
			item.DestDir = d.Dest
		}
		if strings.TrimSpace(item.DestDir) == "" {
			return Batch{}, invalidField(path, fieldPrefix+".dest", "no destination directory configured")
		}

		out.Items = append(out.Items, item)
	}
	return out, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlbatch.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("%w: %s: %s", domain.ErrInvalidConfig, field, msg),
	}
}

// IsInvalid reports whether err came from batch validation.
func IsInvalid(err error) bool {
	return errors.Is(err, domain.ErrInvalidConfig)
}
