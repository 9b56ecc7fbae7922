// Package historystore keeps one JSON document per finished download under
// $XDG_DATA_HOME/oondl/history, plus an optional append-only index.jsonl.
package historystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/mawi1/oondl/internal/domain"
	"github.com/mawi1/oondl/internal/ports"
)

const (
	indexFile = "index.jsonl"
	stampFmt  = "20060102T150405Z"
	maxSlug   = 60
)

type JSONStore struct {
	dir        string
	writeIndex bool
	now        func() time.Time
}

type Option func(*JSONStore)

// WithIndex appends a summary line per download to index.jsonl.
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func WithDir(dir string) Option {
	return func(s *JSONStore) { s.dir = dir }
}

func NewJSONStore(opts ...Option) *JSONStore {
	s := &JSONStore{
		dir: filepath.Join(xdg.DataHome, "oondl", "history"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.HistoryStore = (*JSONStore)(nil)

func (s *JSONStore) Dir() string { return s.dir }

// Save writes entry and returns its id. The id is the UTC finish time plus a
// slug of the title, suffixed with -2, -3, ... when that name is taken.
func (s *JSONStore) Save(entry domain.HistoryEntry) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fileErr("historystore.mkdir", s.dir, err)
	}

	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = s.now()
	}
	slug := slugify(entry.Title)
	if slug == "" {
		slug = "download"
	}
	base := entry.FinishedAt.UTC().Format(stampFmt) + "_" + slug

	for n := 1; ; n++ {
		id := base
		if n > 1 {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		entry.ID = id

		err := s.create(id+".json", entry)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if s.writeIndex {
			// the per-download file is authoritative
			_ = s.appendIndex(id+".json", entry)
		}
		return id, nil
	}
}

// create writes the document without replacing an existing one. The name is
// reserved with O_EXCL, then filled by renaming a temp file over it.
func (s *JSONStore) create(name string, entry domain.HistoryEntry) error {
	b, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return &domain.OpError{Op: "historystore.marshal", Kind: domain.KindUnexpected, Err: err}
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return err
		}
		return fileErr("historystore.create", path, err)
	}
	_ = f.Close()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		_ = os.Remove(path)
		return fileErr("historystore.write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		_ = os.Remove(path)
		return fileErr("historystore.rename", path, err)
	}
	return nil
}

// List returns up to limit entries, newest first. limit <= 0 means all.
// Documents that cannot be read or decoded are skipped.
func (s *JSONStore) List(limit int) ([]domain.HistoryEntry, error) {
	dirents, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fileErr("historystore.list", s.dir, err)
	}

	out := make([]domain.HistoryEntry, 0, len(dirents))
	for _, e := range dirents {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		b, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var h domain.HistoryEntry
		if json.Unmarshal(b, &h) != nil {
			continue
		}
		out = append(out, h)
	}

	slices.SortStableFunc(out, func(a, b domain.HistoryEntry) int {
		return b.FinishedAt.Compare(a.FinishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type indexLine struct {
	ID         string    `json:"id"`
	File       string    `json:"file"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Path       string    `json:"path"`
	FinishedAt time.Time `json:"finished_at"`
}

func (s *JSONStore) appendIndex(file string, entry domain.HistoryEntry) error {
	line, err := json.Marshal(indexLine{
		ID:         entry.ID,
		File:       file,
		Title:      entry.Title,
		URL:        entry.URL,
		Path:       entry.Path,
		FinishedAt: entry.FinishedAt,
	})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(s.dir, indexFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

func fileErr(op, path string, err error) error {
	return &domain.OpError{Op: op, Kind: domain.KindFile, Path: path, Err: err}
}

var umlauts = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

// slugify turns a programme title into a lowercase ASCII filename component.
func slugify(s string) string {
	s = umlauts.Replace(strings.ToLower(strings.TrimSpace(s)))

	var b strings.Builder
	dash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	out := strings.TrimRight(b.String(), "-")
	if len(out) > maxSlug {
		out = strings.TrimRight(out[:maxSlug], "-")
	}
	return out
}
