package settings

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mawi1/oondl/internal/domain"
)

// Env holds the environment overrides.
type Env struct {
	Log         string        `env:"OONDL_LOG"`
	FFmpeg      string        `env:"OONDL_FFMPEG" envDefault:"ffmpeg"`
	DestDir     string        `env:"OONDL_DEST_DIR"`
	Quality     string        `env:"OONDL_QUALITY"`
	HTTPTimeout time.Duration `env:"OONDL_HTTP_TIMEOUT" envDefault:"30s"`
	Lang        string        `env:"LANG"`
}

func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, &domain.OpError{
			Op:   "settings.env",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}
	return e, nil
}

// Resolve layers env over the persisted settings and returns the effective config.
func Resolve(set domain.Settings, e Env) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	cfg.Quality = set.Quality
	cfg.DestDir = set.DestDir

	if strings.TrimSpace(e.Quality) != "" {
		q, err := domain.ParseQuality(e.Quality)
		if err != nil {
			return cfg, err
		}
		cfg.Quality = q
	}
	if strings.TrimSpace(e.DestDir) != "" {
		cfg.DestDir = e.DestDir
	}
	if strings.TrimSpace(e.FFmpeg) != "" {
		cfg.FFmpegPath = e.FFmpeg
	}
	if e.HTTPTimeout > 0 {
		cfg.HTTPTimeout = e.HTTPTimeout
	}
	cfg.Debug = DebugRequested(e)
	cfg.Lang = e.Lang
	return cfg, nil
}

// DebugRequested reports whether OONDL_LOG asks for debug logging.
func DebugRequested(e Env) bool {
	return strings.EqualFold(strings.TrimSpace(e.Log), "debug")
}
