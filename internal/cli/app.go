package cli

import (
	"errors"
	"log/slog"

	"github.com/mawi1/oondl/internal/domain"
	"github.com/mawi1/oondl/internal/infra/ffmpeg"
	"github.com/mawi1/oondl/internal/infra/historystore"
	"github.com/mawi1/oondl/internal/infra/httpclient"
	"github.com/mawi1/oondl/internal/infra/logger"
	"github.com/mawi1/oondl/internal/infra/settings"
	"github.com/mawi1/oondl/internal/infra/userdirs"
	"github.com/mawi1/oondl/internal/usecase"
)

// appCtx is everything a command needs, wired from env, settings and flags.
type appCtx struct {
	cfg      domain.Config
	settings *settings.Store
	// settingsErr is a broken settings file; defaults are used instead.
	settingsErr error

	history    *historystore.JSONStore
	downloader *usecase.Downloader
	log        *slog.Logger
}

func loadApp(debugFlag bool) (*appCtx, func(), error) {
	noop := func() {}

	env, err := settings.LoadEnv()
	if err != nil {
		return nil, noop, err
	}

	debug := debugFlag || settings.DebugRequested(env)
	cleanup, logErr := logger.Setup(logger.Config{Debug: debug})
	done := noop
	if cleanup != nil {
		done = func() { _ = cleanup() }
	}
	log := logger.L()
	if logErr != nil {
		// keep going without a log file
		log.Warn("logger.setup_failed", "err", logErr)
	}

	defaults := domain.Settings{
		Quality: domain.QualityHigh,
		DestDir: userdirs.NewLocator().DefaultDestDir(),
	}
	store := settings.NewStore(settings.WithDefaults(defaults))

	var settingsErr error
	set, err := store.Load()
	if err != nil {
		if !domain.IsKind(err, domain.KindInvalidConfig) {
			done()
			return nil, noop, err
		}
		log.Warn("settings.invalid", "path", store.Path(), "err", err)
		settingsErr = err
		set = defaults
	}

	cfg, err := settings.Resolve(set, env)
	if err != nil {
		done()
		return nil, noop, err
	}
	cfg.Debug = debug
	if cfg.DestDir == "" {
		cfg.DestDir = defaults.DestDir
	}

	hc := httpclient.DefaultConfig()
	hc.Timeout = cfg.HTTPTimeout
	fetcher := httpclient.NewFetcher(hc)
	muxer := ffmpeg.New(cfg.FFmpegPath, ffmpeg.WithLogger(log))
	history := historystore.NewJSONStore(historystore.WithIndex(true))

	log.Info("app.start",
		"quality", cfg.Quality.String(),
		"dest", cfg.DestDir,
		"ffmpeg", cfg.FFmpegPath,
		"http_timeout", cfg.HTTPTimeout.String(),
		"debug", cfg.Debug,
	)

	return &appCtx{
		cfg:         cfg,
		settings:    store,
		settingsErr: settingsErr,
		history:     history,
		downloader:  usecase.NewDownloader(fetcher, muxer, usecase.WithHistory(history), usecase.WithLogger(log)),
		log:         log,
	}, done, nil
}

var errNothingToDownload = errors.New("nothing to download: pass one or more URLs or --file")
