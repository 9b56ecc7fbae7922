// Package instance guards against running two interactive sessions at once.
package instance

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/sys/unix"

	"github.com/mawi1/oondl/internal/domain"
)

// ErrAlreadyRunning is returned when another process holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Lock is an exclusive advisory lock on a file.
type Lock struct {
	f *os.File
}

// DefaultPath is the lock file inside the user's runtime directory.
func DefaultPath(name string) string {
	return filepath.Join(xdg.RuntimeDir, name+".lock")
}

// Acquire takes a non-blocking exclusive flock on path.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, &domain.OpError{
			Op:   "instance.acquire",
			Kind: domain.KindFile,
			Path: path,
			Err:  err,
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "instance.acquire",
			Kind: domain.KindFile,
			Path: path,
			Err:  err,
		}
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrAlreadyRunning
		}
		return nil, &domain.OpError{
			Op:   "instance.acquire",
			Kind: domain.KindFile,
			Path: path,
			Err:  err,
		}
	}
	return &Lock{f: f}, nil
}

// Release drops the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	_ = unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	err := l.f.Close()
	l.f = nil
	return err
}
