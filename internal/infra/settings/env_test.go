package settings

import (
	"testing"
	"time"

	"github.com/mawi1/oondl/internal/domain"
)

func TestLoadEnvDefaults(t *testing.T) {
	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.HTTPTimeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %s", e.HTTPTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OONDL_LOG", "debug")
	t.Setenv("OONDL_FFMPEG", "/opt/ffmpeg")
	t.Setenv("OONDL_QUALITY", "low")
	t.Setenv("OONDL_HTTP_TIMEOUT", "5s")

	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := Resolve(domain.Settings{Quality: domain.QualityHigh, DestDir: "/v"}, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Debug {
		t.Errorf("expected debug")
	}
	if cfg.FFmpegPath != "/opt/ffmpeg" {
		t.Errorf("unexpected ffmpeg path %q", cfg.FFmpegPath)
	}
	if cfg.Quality != domain.QualityLow {
		t.Errorf("expected env quality to win, got %v", cfg.Quality)
	}
	if cfg.DestDir != "/v" {
		t.Errorf("expected settings dest dir, got %q", cfg.DestDir)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("unexpected timeout %s", cfg.HTTPTimeout)
	}
}

func TestLoadEnvInvalidDuration(t *testing.T) {
	t.Setenv("OONDL_HTTP_TIMEOUT", "soon")

	if _, err := LoadEnv(); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestResolveInvalidQuality(t *testing.T) {
	if _, err := Resolve(domain.Settings{}, Env{Quality: "ultra"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDebugRequested(t *testing.T) {
	cases := map[string]bool{
		"":        false,
		"info":    false,
		"debug":   true,
		" DEBUG ": true,
	}
	for in, want := range cases {
		if got := DebugRequested(Env{Log: in}); got != want {
			t.Errorf("DebugRequested(%q) = %v, want %v", in, got, want)
		}
	}
}
