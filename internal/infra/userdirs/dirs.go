// Package userdirs resolves the user's media directories and checks that a
// destination can be written to.
package userdirs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"golang.org/x/sys/unix"

	"github.com/mawi1/oondl/internal/domain"
)

// Locator finds the default download destination.
type Locator struct {
	videos    string
	downloads string
}

func NewLocator() *Locator {
	return &Locator{
		videos:    xdg.UserDirs.Videos,
		downloads: xdg.UserDirs.Download,
	}
}

// NewLocatorFor is useful for tests.
func NewLocatorFor(videos, downloads string) *Locator {
	return &Locator{videos: videos, downloads: downloads}
}

// DefaultDestDir prefers the Videos directory and falls back to Downloads.
// It returns "" when neither exists.
func (l *Locator) DefaultDestDir() string {
	for _, d := range []string{l.videos, l.downloads} {
		if strings.TrimSpace(d) == "" {
			continue
		}
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			return d
		}
	}
	return ""
}

// CheckWritable returns nil when dir is an existing directory the process may create files in.
func CheckWritable(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return &domain.OpError{
			Op:   "userdirs.writable",
			Kind: domain.KindValidation,
			Err:  domain.ErrNotWritable,
		}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return &domain.OpError{
			Op:   "userdirs.writable",
			Kind: domain.KindValidation,
			Path: dir,
			Err:  err,
		}
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return &domain.OpError{
			Op:   "userdirs.writable",
			Kind: domain.KindValidation,
			Path: abs,
			Err:  domain.ErrNotWritable,
		}
	}

	if err := unix.Access(abs, unix.W_OK|unix.X_OK); err != nil {
		return &domain.OpError{
			Op:   "userdirs.writable",
			Kind: domain.KindValidation,
			Path: abs,
			Err:  domain.ErrNotWritable,
		}
	}
	return nil
}
