package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/internal/config"
)

var (
	configFile string
	envFiles   []string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error("Command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "vocabsrs",
		Short:         "Spaced-repetition review scheduling and study reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(envFiles...)
		},
	}

	flags := rootCommand.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default ./config.yml or $HOME/.config/vocabsrs/config.yml)")
	flags.StringSliceVar(&envFiles, "env-file", nil, ".env files to load before reading the configuration")

	rootCommand.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newReviewCommand(),
		newWeakWordsCommand(),
		newRemindCommand(),
		newActivatePlanCommand(),
		newDeletePlanCommand(),
	)
	return rootCommand
}

// setupLogger installs the process-wide logger described by cfg
func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reminder scheduler until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Create a channel for signals
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sched, err := a.scheduler(ctx)
			if err != nil {
				return err
			}

			if a.cfg.Scheduler.Enabled {
				if err := sched.InitializeAll(ctx); err != nil {
					return fmt.Errorf("failed to initialize reminder jobs: %w", err)
				}
				sched.Start()
				defer sched.Stop()

				if interval := a.cfg.Scheduler.ReloadInterval; interval > 0 {
					go a.reloadLoop(ctx, sched, interval)
				}
			} else {
				a.logger.Warn("Scheduler disabled, no reminders will be sent")
			}

			botDone := make(chan struct{})
			if err := a.startBot(ctx, sched, botDone); err != nil {
				return err
			}

			sig := <-sigChan
			a.logger.Info("Received signal, shutting down", slog.String("signal", sig.String()))
			cancel()

			// Give in-flight chat updates time to finish
			select {
			case <-botDone:
			case <-time.After(5 * time.Second):
				a.logger.Warn("Timed out waiting for the Telegram bot to stop")
			}
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s)\n", a.cfg.Database.Driver)
			return nil
		},
	}
}
