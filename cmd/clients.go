package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Artexxx/HR-Directory/internal/config"
	"github.com/Artexxx/HR-Directory/internal/directory"
	"github.com/Artexxx/HR-Directory/internal/remote"
	"github.com/Artexxx/HR-Directory/internal/tui"
	"github.com/Artexxx/HR-Directory/internal/web"
)

func newController(cfg *config.Config, logger zerolog.Logger) *directory.Controller {
	client := remote.New(remote.Config{
		BaseURL: cfg.Web.Backend(),
		Timeout: cfg.Client.TimeoutOrDefault(),
	}, logger)

	return directory.NewController(client, clientValidator(cfg), logger)
}

func webCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "web",
		Short: "Serve the employee form as a web page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(f)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			ctrl := newController(cfg, log.Logger)
			if err := ctrl.Load(ctx); err != nil {
				log.Error().Err(err).Msg("initial load failed, starting with an empty list")
			}

			group, gctx := errgroup.WithContext(ctx)
			group.Go(func() error {
				return web.NewServer(cfg.Web.PortOrDefault(), ctrl, log.Logger).Start(gctx)
			})

			return group.Wait()
		},
	}
}

func tuiCmd(f *rootFlags) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the employee form in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(f)
			if err != nil {
				return err
			}

			// the terminal is the UI, so logs go to a file or nowhere
			logger := zerolog.Nop()
			if logFile != "" {
				fh, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return err
				}
				defer fh.Close()
				logger = zerolog.New(fh).With().Timestamp().Logger()
			}

			ctx, stop := signalContext()
			defer stop()

			ctrl := newController(cfg, logger)
			m := tui.New(ctx, ctrl, logger)
			if err := ctrl.Load(ctx); err != nil {
				m = m.WithError(err)
			} else {
				m = m.Refresh()
			}

			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")

	return cmd
}
