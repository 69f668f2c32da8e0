package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pheme/internal/daemon"
	"pheme/internal/journal"
	"pheme/internal/logging"
	"pheme/internal/notifications"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the background sweeper until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:    cfg.Logging.Level,
				Format:   cfg.Logging.Format,
				FilePath: cfg.LogFilePath(),
			})
			if err != nil {
				return err
			}

			tr, err := ctx.newTracker()
			if err != nil {
				return err
			}
			jr, err := journal.Open(cfg.JournalPath())
			if err != nil {
				return err
			}
			defer jr.Close()

			notifier := notifications.NewService(cfg)
			sweeper := daemon.NewSweeper(tr, jr, notifier, logger)
			d, err := daemon.New(cfg, sweeper, notifier, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Daemon running. Press Ctrl+C to stop.")

			<-runCtx.Done()
			d.Stop()
			return nil
		},
	}
}
