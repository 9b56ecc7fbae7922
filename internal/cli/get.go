package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mawi1/oondl/internal/domain"
	"github.com/mawi1/oondl/internal/infra/userdirs"
	"github.com/mawi1/oondl/internal/infra/yamlbatch"
	"github.com/mawi1/oondl/internal/usecase"
)

type getOptions struct {
	quality string
	dest    string
	retries int
	file    string
	format  string

	// set when the flag was given explicitly; it then beats the batch file
	qualitySet bool
	destSet    bool
}

// result is the outcome of one request of a get run.
type result struct {
	URL     string `json:"url"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Attempt int    `json:"attempts"`
}

func (r result) ok() bool { return r.Error == "" && r.Path != "" }

func getCmd(debug *bool) *cobra.Command {
	var o getOptions

	c := &cobra.Command{
		Use:   "get [url...]",
		Short: "Download one or more videos without the interactive UI",
		Example: "  oondl get https://on.orf.at/video/14224991\n" +
			"  oondl get --quality low --dest ~/Videos https://on.orf.at/video/14224991/15658303\n" +
			"  oondl get --file downloads.yaml --format json",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(o.format); err != nil {
				return err
			}
			o.qualitySet = cmd.Flags().Changed("quality")
			o.destSet = cmd.Flags().Changed("dest")

			app, cleanup, err := loadApp(*debug)
			if err != nil {
				return err
			}
			defer cleanup()

			if o.dest == "" {
				o.dest = app.cfg.DestDir
			}
			if o.quality == "" {
				o.quality = app.cfg.Quality.String()
			}

			reqs, err := buildRequests(args, o)
			if err != nil {
				return err
			}
			if err := checkDestinations(reqs, userdirs.CheckWritable); err != nil {
				return err
			}

			results := runQueue(cmd.Context(), app.downloader, reqs, o.retries, cmd.ErrOrStderr(), app.log)
			if err := printSummary(cmd.OutOrStdout(), results, o.format); err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if !r.ok() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d downloads failed", failed, len(results))
			}
			return nil
		},
	}

	c.Flags().StringVarP(&o.quality, "quality", "q", "", "Video quality: low|medium|high (default: saved setting)")
	c.Flags().StringVarP(&o.dest, "dest", "d", "", "Destination directory (default: saved setting)")
	c.Flags().IntVar(&o.retries, "retries", 0, "Retry a failed download this many times")
	c.Flags().StringVarP(&o.file, "file", "f", "", "YAML file listing downloads")
	c.Flags().StringVar(&o.format, "format", "pretty", "Summary format: pretty|json")
	return c
}

// buildRequests turns positional URLs and an optional batch file into requests.
// Positional URLs come first.
func buildRequests(args []string, o getOptions) ([]domain.DownloadRequest, error) {
	q, err := domain.ParseQuality(o.quality)
	if err != nil {
		return nil, err
	}

	var reqs []domain.DownloadRequest
	for _, a := range args {
		u, err := domain.ParseOonURL(a)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, domain.NewDownloadRequest(u, q, o.dest))
	}

	if o.file != "" {
		opts := []yamlbatch.Option{yamlbatch.WithDefaults(yamlbatch.Defaults{
			Quality: q,
			DestDir: o.dest,
		})}
		var ov yamlbatch.Overrides
		if o.qualitySet {
			ov.Quality = &q
		}
		if o.destSet {
			ov.DestDir = o.dest
		}
		opts = append(opts, yamlbatch.WithOverrides(ov))
		batch, err := yamlbatch.NewLoader(opts...).Load(o.file)
		if err != nil {
			return nil, err
		}
		for _, it := range batch.Items {
			reqs = append(reqs, domain.NewDownloadRequest(it.URL, it.Quality, it.DestDir))
		}
	}

	if len(reqs) == 0 {
		return nil, errNothingToDownload
	}
	return reqs, nil
}

func checkDestinations(reqs []domain.DownloadRequest, writable func(string) error) error {
	seen := map[string]bool{}
	for _, r := range reqs {
		dir := filepath.Clean(r.DestDir)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := writable(dir); err != nil {
			return err
		}
	}
	return nil
}

// runQueue feeds reqs through a Queue and collects one result per request,
// in order. Progress lines go to progress.
func runQueue(ctx context.Context, runner usecase.DownloadRunner, reqs []domain.DownloadRequest, retries int, progress io.Writer, log *slog.Logger) []result {
	q := usecase.NewQueue(runner, usecase.WithQueueLogger(log))

	results := make([]result, len(reqs))
	index := make(map[uint32]int, len(reqs))
	for i, r := range reqs {
		results[i] = result{URL: r.URL.String()}
		index[r.ID] = i
		q.Add(r)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go q.Run(ctx)

	cur := -1
	lastPct := -10
	for u := range q.Updates() {
		switch u := u.(type) {
		case domain.StartedRequest:
			i, ok := index[u.RequestID]
			if !ok {
				continue
			}
			cur = i
			lastPct = -10
			results[i].Attempt++
			fmt.Fprintf(progress, "[%d/%d] %s\n", i+1, len(reqs), results[i].URL)
		case domain.TitleFound:
			fmt.Fprintf(progress, "  title: %s\n", u.Title)
		case domain.StartedVideo:
			lastPct = -10
			if u.TotalVideos > 1 {
				fmt.Fprintf(progress, "  video %d of %d\n", u.VideoNo, u.TotalVideos)
			}
		case domain.Downloaded:
			pct := int(u.Progress * 100)
			if pct >= lastPct+10 || (pct == 100 && lastPct != 100) {
				fmt.Fprintf(progress, "  %3d%%\n", pct)
				lastPct = pct
			}
		case domain.Merging:
			fmt.Fprintln(progress, "  merging")
		case domain.Finished:
			if i, ok := index[u.RequestID]; ok {
				results[i].Path = u.Path
				results[i].Error = ""
				results[i].Kind = ""
			}
			fmt.Fprintf(progress, "  saved %s\n", u.Path)
		case domain.Failed:
			if cur < 0 {
				continue
			}
			results[cur].Error = u.Err.Error()
			results[cur].Kind = string(domain.Classify(u.Err))
			if results[cur].Attempt <= retries {
				fmt.Fprintf(progress, "  failed (%s), retrying\n", results[cur].Kind)
				q.Retry()
				continue
			}
			fmt.Fprintf(progress, "  failed: %v\n", u.Err)
			q.CancelOnError()
		case domain.Idle:
			cancel()
		}
	}

	for i := range results {
		if results[i].Path == "" && results[i].Error == "" {
			results[i].Error = context.Canceled.Error()
			results[i].Kind = string(domain.KindUnexpected)
		}
	}
	return results
}

// checkFormat rejects an unknown --format before any work is done.
func checkFormat(format string) error {
	switch format {
	case "pretty", "json", "":
		return nil
	}
	return &domain.OpError{
		Op:   "cli.format",
		Kind: domain.KindValidation,
		Err:  fmt.Errorf("unsupported format %q (expected pretty|json)", format),
	}
}

func printSummary(w io.Writer, results []result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "pretty", "":
		ok := 0
		for _, r := range results {
			if r.ok() {
				ok++
				fmt.Fprintf(w, "OK    %s\n      %s\n", r.URL, r.Path)
				continue
			}
			fmt.Fprintf(w, "FAIL  %s\n      %s\n", r.URL, r.Error)
		}
		fmt.Fprintf(w, "\n%d/%d downloaded\n", ok, len(results))
		return nil
	default:
		return checkFormat(format)
	}
}
