package usecase

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mawi1/oondl/internal/domain"
)

const maxSuffix = 254

// UniqueMP4Path returns dir/stem.mp4, or the first free dir/stem_(n).mp4.
func UniqueMP4Path(dir, stem string) (string, error) {
	candidate := filepath.Join(dir, stem+".mp4")
	for n := 1; ; n++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", &domain.OpError{Op: "download.dest", Kind: domain.KindFile, Path: candidate, Err: err}
		}
		if n > maxSuffix {
			return "", &domain.OpError{Op: "download.dest", Kind: domain.KindFile, Path: filepath.Join(dir, stem+".mp4"), Err: domain.ErrAlreadyExists}
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_(%d).mp4", stem, n))
	}
}
