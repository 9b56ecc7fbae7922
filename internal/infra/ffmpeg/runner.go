// Package ffmpeg runs the external ffmpeg binary to mux and concatenate media files.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"

	"github.com/mawi1/oondl/internal/domain"
	"github.com/mawi1/oondl/internal/ports"
)

var errNonZeroExit = errors.New("ffmpeg exited with non-zero exit code")

type Runner struct {
	path string
	log  *slog.Logger
}

type Option func(*Runner)

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// New builds a runner for the ffmpeg binary at path (looked up in PATH when relative).
func New(path string, opts ...Option) *Runner {
	if path == "" {
		path = "ffmpeg"
	}
	r := &Runner{
		path: path,
		log:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.Muxer = (*Runner)(nil)

func (r *Runner) Mux(ctx context.Context, videoPath, audioPath, dest string) error {
	return r.run(ctx, MuxArgs(videoPath, audioPath, dest), "")
}

func (r *Runner) Concat(ctx context.Context, dir, listFile, dest string) error {
	return r.run(ctx, ConcatArgs(listFile, dest), dir)
}

// MuxArgs copies the video stream of the first input and the audio stream of the second.
func MuxArgs(videoPath, audioPath, dest string) []string {
	return []string{
		"-i", videoPath,
		"-i", audioPath,
		"-codec", "copy",
		"-map", "0:v",
		"-map", "1:a",
		dest,
	}
}

func ConcatArgs(listFile, dest string) []string {
	return []string{
		"-f", "concat",
		"-i", listFile,
		"-codec", "copy",
		dest,
	}
}

func (r *Runner) run(ctx context.Context, args []string, dir string) error {
	cmd := exec.CommandContext(ctx, r.path, args...)
	cmd.Stdin = nil
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("ffmpeg.start", "path", r.path, "args", args, "dir", dir)
	err := cmd.Run()

	r.log.Debug("ffmpeg.stdout", "output", stdout.String())
	r.log.Debug("ffmpeg.stderr", "output", stderr.String())

	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &domain.OpError{
			Op:   "ffmpeg.run",
			Kind: domain.KindUnexpected,
			Err:  errNonZeroExit,
		}
	}
	return &domain.OpError{
		Op:   "ffmpeg.run",
		Kind: domain.KindUnexpected,
		Path: r.path,
		Err:  errors.Join(errors.New("failed to run ffmpeg"), err),
	}
}
