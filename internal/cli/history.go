package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mawi1/oondl/internal/domain"
)

func historyCmd(debug *bool) *cobra.Command {
	var limit int
	var format string

	c := &cobra.Command{
		Use:   "history",
		Short: "List finished downloads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			app, cleanup, err := loadApp(*debug)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := app.history.List(limit)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), entries, format)
		},
	}

	c.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries (0 = all)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printHistory(w io.Writer, entries []domain.HistoryEntry, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []domain.HistoryEntry{}
		}
		return enc.Encode(entries)
	case "pretty", "":
		if len(entries) == 0 {
			fmt.Fprintln(w, "(no downloads yet)")
			return nil
		}
		for _, e := range entries {
			took := e.FinishedAt.Sub(e.StartedAt).Round(time.Second)
			if e.StartedAt.IsZero() {
				took = 0
			}
			fmt.Fprintf(w, "%s  %s\n", e.FinishedAt.Local().Format("2006-01-02 15:04"), e.Title)
			fmt.Fprintf(w, "    %s\n", e.Path)
			fmt.Fprintf(w, "    %s, quality %s, %d video(s), %s\n", e.URL, e.Quality, e.Videos, took)
		}
		return nil
	default:
		return checkFormat(format)
	}
}
