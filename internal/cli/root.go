package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mawi1/oondl/internal/buildinfo"
	"github.com/mawi1/oondl/internal/i18n"
	"github.com/mawi1/oondl/internal/infra/instance"
	"github.com/mawi1/oondl/internal/infra/userdirs"
	"github.com/mawi1/oondl/internal/ui/tui"
	"github.com/mawi1/oondl/internal/usecase"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:          buildinfo.AppName,
		Short:        "Download videos from the ORF ON media library",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(debug)
			if err != nil {
				return err
			}
			defer cleanup()

			lock, err := instance.Acquire(instance.DefaultPath(buildinfo.AppName))
			if errors.Is(err, instance.ErrAlreadyRunning) {
				app.log.Warn("instance.already_running")
				fmt.Fprintln(cmd.ErrOrStderr(), "another instance is already running")
				return nil
			}
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			return runTUI(cmd.Context(), app)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to $XDG_STATE_HOME/oondl/logs/oondl.log")

	cmd.AddCommand(getCmd(&debug))
	cmd.AddCommand(historyCmd(&debug))
	cmd.AddCommand(versionCmd())
	return cmd
}

func runTUI(ctx context.Context, app *appCtx) error {
	q := usecase.NewQueue(app.downloader, usecase.WithQueueLogger(app.log))

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		q.Run(ctx)
	}()

	err := tui.Run(tui.Deps{
		Downloads:  q,
		Settings:   app.settings,
		Writable:   userdirs.CheckWritable,
		Config:     app.cfg,
		Printer:    i18n.ForLocale(app.cfg.Lang),
		StartupErr: app.settingsErr,
		Logger:     app.log,
		Debug:      app.cfg.Debug,
	})

	cancel()
	<-done
	app.log.Debug("tui.exited")
	return err
}
