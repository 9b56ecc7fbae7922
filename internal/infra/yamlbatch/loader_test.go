package yamlbatch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mawi1/oondl/internal/domain"
)

func writeBatch(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "batch.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_Valid(t *testing.T) {
	p := writeBatch(t, `
quality: medium
dest: /videos
downloads:
  - url: https://on.orf.at/video/14225330
  - url: https://on.orf.at/video/14225651/15636092/gauder-fest
    quality: low
    dest: /other
`)

	b, err := NewLoader().Load(p)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(b.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(b.Items))
	}

	first := b.Items[0]
	if first.URL.VideoID() != "14225330" || first.Quality != domain.QualityMedium || first.DestDir != "/videos" {
		t.Fatalf("unexpected first item %+v", first)
	}

	second := b.Items[1]
	if seg, ok := second.URL.SegmentID(); !ok || seg != "15636092" {
		t.Fatalf("expected segment id, got %q", seg)
	}
	if second.Quality != domain.QualityLow || second.DestDir != "/other" {
		t.Fatalf("unexpected second item %+v", second)
	}
}

func TestLoad_UsesLoaderDefaults(t *testing.T) {
	p := writeBatch(t, `
downloads:
  - url: https://on.orf.at/video/1
`)

	b, err := NewLoader(WithDefaults(Defaults{Quality: domain.QualityLow, DestDir: "/d"})).Load(p)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if b.Items[0].Quality != domain.QualityLow || b.Items[0].DestDir != "/d" {
		t.Fatalf("expected loader defaults, got %+v", b.Items[0])
	}
}

func TestLoad_OverridesBeatFileLevel(t *testing.T) {
	p := writeBatch(t, `
quality: medium
dest: /from-file
downloads:
  - url: https://on.orf.at/video/1
  - url: https://on.orf.at/video/2
    quality: high
    dest: /per-item
`)

	low := domain.QualityLow
	b, err := NewLoader(
		WithDefaults(Defaults{Quality: domain.QualityHigh, DestDir: "/d"}),
		WithOverrides(Overrides{Quality: &low, DestDir: "/flag"}),
	).Load(p)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if b.Items[0].Quality != domain.QualityLow || b.Items[0].DestDir != "/flag" {
		t.Fatalf("expected overrides on the first item, got %+v", b.Items[0])
	}
	if b.Items[1].Quality != domain.QualityHigh || b.Items[1].DestDir != "/per-item" {
		t.Fatalf("per-item values should still win, got %+v", b.Items[1])
	}
}

func TestLoad_InvalidURLPointsAtField(t *testing.T) {
	p := writeBatch(t, `
dest: /videos
downloads:
  - url: https://on.orf.at/video/1
  - url: https://example.com/nope
`)

	_, err := NewLoader().Load(p)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsInvalid(err) || !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
	if !strings.Contains(err.Error(), "downloads[1].url") {
		t.Fatalf("expected field path in error, got %v", err)
	}
}

func TestLoad_MissingDest(t *testing.T) {
	p := writeBatch(t, `
downloads:
  - url: https://on.orf.at/video/1
`)

	_, err := NewLoader().Load(p)
	if err == nil || !strings.Contains(err.Error(), "downloads[0].dest") {
		t.Fatalf("expected dest error, got %v", err)
	}
}

func TestLoad_Empty(t *testing.T) {
	p := writeBatch(t, "quality: high\n")
	if _, err := NewLoader().Load(p); !IsInvalid(err) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	p := writeBatch(t, "downloads: [")
	if _, err := NewLoader().Load(p); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
