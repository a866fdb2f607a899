package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Artexxx/HR-Directory/internal/config"
	"github.com/Artexxx/HR-Directory/internal/validation"
	"github.com/Artexxx/HR-Directory/library/yamlreader"
)

const (
	Version = "0.1.0"
	appName = "hr-directory"
)

type rootFlags struct {
	configPath string
	logLevel   string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:          appName,
		Short:        "Employee directory: REST backend, web and terminal clients",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "path to config file (default $CONFIG_PATH or config/application-local.yaml)")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		apiCmd(f),
		webCmd(f),
		tuiCmd(f),
		auditCmd(f),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

// setup loads .env and the YAML config and configures the global logger.
func setup(f *rootFlags) (*config.Config, error) {
	_ = godotenv.Load(".env")

	level, err := zerolog.ParseLevel(f.logLevel)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", f.logLevel, err)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	path := f.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/application-local.yaml"
	}

	cfg, err := yamlreader.NewConfig[config.Config](path)
	if err != nil {
		log.Error().Str("path", path).Err(err).Msg("ошибка чтения конфигурации приложения")
		return nil, err
	}

	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func clientValidator(cfg *config.Config) *validation.Validator {
	if cfg.Web.DesignationOptional() {
		return validation.New(validation.WithOptionalDesignation())
	}
	return validation.New()
}
