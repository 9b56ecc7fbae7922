package ports

import "context"

// Muxer combines downloaded media files into the final container.
type Muxer interface {
	Mux(ctx context.Context, videoPath, audioPath, dest string) error
	// Concat joins the files listed in listFile (relative to dir) into dest.
	Concat(ctx context.Context, dir, listFile, dest string) error
}
