package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mawi1/oondl/internal/domain"
	"github.com/mawi1/oondl/internal/ports"
	ucextract "github.com/mawi1/oondl/internal/usecase/extract"
	ucmpd "github.com/mawi1/oondl/internal/usecase/mpd"
)

const concatList = "concat.txt"

// Downloader turns one request into an .mp4 in the request's destination dir.
type Downloader struct {
	fetcher ports.Fetcher
	muxer   ports.Muxer
	history ports.HistoryStore
	log     *slog.Logger
	now     func() time.Time
}

type DownloaderOption func(*Downloader)

// WithHistory records every finished download in h.
func WithHistory(h ports.HistoryStore) DownloaderOption {
	return func(d *Downloader) { d.history = h }
}

func WithLogger(l *slog.Logger) DownloaderOption {
	return func(d *Downloader) {
		if l != nil {
			d.log = l
		}
	}
}

func WithClock(now func() time.Time) DownloaderOption {
	return func(d *Downloader) {
		if now != nil {
			d.now = now
		}
	}
}

func NewDownloader(f ports.Fetcher, m ports.Muxer, opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		fetcher: f,
		muxer:   m,
		log:     slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download runs the whole request and reports its progress to sink.
// It returns the path of the written file.
func (d *Downloader) Download(ctx context.Context, req domain.DownloadRequest, sink ports.UpdateSink) (string, error) {
	startedAt := d.now()
	sink.Send(domain.StartedRequest{RequestID: req.ID})
	d.log.Info("download.start", "id", req.ID, "url", req.URL.String(), "quality", req.Quality.String())

	destDir, err := filepath.Abs(req.DestDir)
	if err != nil {
		return "", &domain.OpError{Op: "download.dest", Kind: domain.KindFile, Path: req.DestDir, Err: err}
	}

	page, err := d.fetcher.Get(ctx, req.URL.String())
	if err != nil {
		return "", err
	}
	title, err := ucextract.Title(page.Body)
	if err != nil {
		return "", scrapeErr(req.URL.String(), err)
	}
	sink.Send(domain.TitleFound{Title: title})

	stem := DestStem(title, req.URL.VideoID())

	var (
		dest   string
		videos = 1
	)
	if segmentID, ok := req.URL.SegmentID(); ok {
		mpdURL, err := ucextract.SegmentURL(page.Body, segmentID)
		if err != nil {
			return "", scrapeErr(req.URL.String(), err)
		}
		if dest, err = UniqueMP4Path(destDir, stem); err != nil {
			return "", err
		}
		sink.Send(domain.StartedVideo{VideoNo: 1, TotalVideos: 1})
		if err := d.downloadVideo(ctx, mpdURL, req.Quality, destDir, dest, sink); err != nil {
			return "", err
		}
	} else {
		if dest, err = UniqueMP4Path(destDir, stem); err != nil {
			return "", err
		}
		info, err := ucextract.Videos(page.Body)
		if err != nil {
			return "", scrapeErr(req.URL.String(), err)
		}
		videos = len(info.URLs)
		if info.Segmented {
			err = d.downloadSegmented(ctx, info.URLs, req.Quality, destDir, dest, sink)
		} else {
			sink.Send(domain.StartedVideo{VideoNo: 1, TotalVideos: 1})
			err = d.downloadVideo(ctx, info.URLs[0], req.Quality, destDir, dest, sink)
		}
		if err != nil {
			return "", err
		}
	}

	d.log.Info("download.finished", "id", req.ID, "path", dest)
	if d.history != nil {
		entry := domain.HistoryEntry{
			Title:      title,
			URL:        req.URL.String(),
			Path:       dest,
			Quality:    req.Quality,
			Videos:     videos,
			StartedAt:  startedAt,
			FinishedAt: d.now(),
		}
		if _, err := d.history.Save(entry); err != nil {
			d.log.Warn("history.save_failed", "err", err)
		}
	}
	sink.Send(domain.Finished{RequestID: req.ID, Path: dest})
	return dest, nil
}

func scrapeErr(pageURL string, err error) error {
	return &domain.OpError{Op: "download.scrape", Kind: domain.KindUnexpected, Path: pageURL, Err: err}
}

func makeTempDir(parent string) (string, error) {
	dir, err := os.MkdirTemp(parent, ".oondl-")
	if err != nil {
		return "", &domain.OpError{Op: "download.tempdir", Kind: domain.KindFile, Path: parent, Err: err}
	}
	return dir, nil
}

func (d *Downloader) downloadSegmented(ctx context.Context, mpdURLs []string, q domain.Quality, destDir, dest string, sink ports.UpdateSink) error {
	tmp, err := makeTempDir(destDir)
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	var list strings.Builder
	for i, u := range mpdURLs {
		name := fmt.Sprintf("%d.mp4", i)
		sink.Send(domain.StartedVideo{VideoNo: i + 1, TotalVideos: len(mpdURLs)})
		if err := d.downloadVideo(ctx, u, q, tmp, filepath.Join(tmp, name), sink); err != nil {
			return err
		}
		fmt.Fprintf(&list, "file '%s'\n", name)
	}

	listPath := filepath.Join(tmp, concatList)
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return &domain.OpError{Op: "download.concat", Kind: domain.KindFile, Path: listPath, Err: err}
	}
	sink.Send(domain.Merging{})
	return d.muxer.Concat(ctx, tmp, concatList, dest)
}

func (d *Downloader) downloadVideo(ctx context.Context, mpdURL string, q domain.Quality, workDir, dest string, sink ports.UpdateSink) error {
	tmp, err := makeTempDir(workDir)
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	page, err := d.fetcher.Get(ctx, mpdURL)
	if err != nil {
		return err
	}
	base := page.FinalURL
	if base == nil {
		if base, err = url.Parse(mpdURL); err != nil {
			return &domain.OpError{Op: "download.manifest", Kind: domain.KindUnexpected, Path: mpdURL, Err: err}
		}
	}
	media, err := ucmpd.MediaURLs(base, page.Body, q)
	if err != nil {
		return &domain.OpError{Op: "download.manifest", Kind: domain.KindUnexpected, Path: mpdURL, Err: err}
	}
	d.log.Debug("download.manifest", "url", base.String(), "video_chunks", len(media.Video), "audio_chunks", len(media.Audio))

	prog := newProgress(len(media.Video)+len(media.Audio), sink)
	videoPath := filepath.Join(tmp, "video.mp4")
	audioPath := filepath.Join(tmp, "audio.mp4")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.fetcher.DownloadToFile(gctx, videoPath, media.Video, prog.chunk)
	})
	g.Go(func() error {
		return d.fetcher.DownloadToFile(gctx, audioPath, media.Audio, prog.chunk)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	sink.Send(domain.Merging{})
	return d.muxer.Mux(ctx, videoPath, audioPath, dest)
}

// progress reports chunks done / total, but only once it moved by more than
// a percent or is complete.
type progress struct {
	mu    sync.Mutex
	done  int
	total int
	last  float64
	sink  ports.UpdateSink
}

func newProgress(total int, sink ports.UpdateSink) *progress {
	return &progress{total: total, sink: sink}
}

func (p *progress) chunk() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	v := float64(p.done) / float64(p.total)
	if v-p.last > 0.01 || v == 1 {
		p.last = v
		p.sink.Send(domain.Downloaded{Progress: v})
	}
}
