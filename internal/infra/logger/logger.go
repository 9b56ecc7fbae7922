// Package logger owns the process-wide slog logger. Records are JSON lines in
// a file because the terminal belongs to the UI.
package logger

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"

	"github.com/mawi1/oondl/internal/buildinfo"
)

const (
	fileName = "oondl.log"
	// maxSize triggers a rotation to oondl.log.1 on the next Setup.
	maxSize = 5 << 20
)

type Config struct {
	// Dir receives oondl.log. Defaults to $XDG_STATE_HOME/oondl/logs.
	Dir   string
	Debug bool
}

var (
	mu      sync.RWMutex
	global  = discard()
	logFile *os.File
	logPath string
)

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func DefaultDir() string {
	return filepath.Join(xdg.StateHome, buildinfo.AppName, "logs")
}

// Setup points L at the log file. The returned func closes it and restores
// the discard logger.
func Setup(cfg Config) (func() error, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir()
	}
	dir = filepath.Clean(dir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		reset()
		return nil, err
	}

	path := filepath.Join(dir, fileName)
	rotated := rotate(path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		reset()
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	l := slog.New(slog.NewJSONHandler(f, opts)).With(
		"version", buildinfo.Version,
		"pid", os.Getpid(),
	)

	mu.Lock()
	global = l
	logFile = f
	logPath = path
	mu.Unlock()

	l.Info("logger.initialized", "path", path, "debug", cfg.Debug, "rotated", rotated)

	return func() error {
		mu.Lock()
		defer mu.Unlock()

		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		logPath = ""
		global = discard()
		return cerr
	}, nil
}

// rotate keeps a single previous generation once the log grows past maxSize.
func rotate(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.Size() < maxSize {
		return false
	}
	return os.Rename(path, path+".1") == nil
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	global = discard()
	logFile = nil
	logPath = ""
}

func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if logFile == nil || logPath == "" {
		return errors.New("logger not initialized")
	}
	return nil
}
