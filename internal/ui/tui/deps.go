package tui

import (
	"log/slog"

	"golang.org/x/text/message"

	"github.com/mawi1/oondl/internal/domain"
	"github.com/mawi1/oondl/internal/ports"
)

// Downloads is the part of the download queue the UI drives.
type Downloads interface {
	Add(req domain.DownloadRequest)
	Remove(id uint32) bool
	CancelCurrent()
	Retry()
	CancelOnError()
	Updates() <-chan domain.Update
}

type Deps struct {
	Downloads Downloads
	Settings  ports.SettingsStore
	// Writable reports why a destination directory cannot be used, if it cannot.
	Writable func(dir string) error

	Config  domain.Config
	Printer *message.Printer
	// StartupErr is shown once when the UI opens (e.g. a broken settings file).
	StartupErr error

	Logger *slog.Logger
	Debug  bool
}
