package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hms/portal/internal/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var a app
	root := &cobra.Command{
		Use:          "hms-portal",
		Short:        "Hospital management portal client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("load env file: %w", err)
				}
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level, _ := cmd.Flags().GetString("log-level")
			if level == "" && cmd.Name() != "serve" {
				level = "warn"
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg, level)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
	}
	root.PersistentFlags().String("env-file", "", "extra env file loaded before the environment is read")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd(&a))
	root.AddCommand(loginCmd(&a), logoutCmd(&a), whoamiCmd(&a), registerCmd(&a), passwordCmd(&a))
	root.AddCommand(doctorsCmd(&a), slotsCmd(&a), bookCmd(&a), appointmentsCmd(&a))
	root.AddCommand(prescriptionsCmd(&a), dashboardCmd(&a))
	return root
}

// newLogger builds the process logger. Development gets the console writer.
func newLogger(w io.Writer, cfg *config.Config, level string) (zerolog.Logger, error) {
	logger := zerolog.New(w).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	}
	if level == "" {
		return logger, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return logger, fmt.Errorf("invalid log level %q", level)
	}
	return logger.Level(lvl), nil
}
