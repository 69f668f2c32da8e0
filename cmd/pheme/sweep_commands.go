package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pheme/internal/catalog"
	"pheme/internal/daemon"
	"pheme/internal/journal"
	"pheme/internal/logging"
	"pheme/internal/notifications"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep [category]",
		Short: "Re-check tracked items now and push any change events",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
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

			logger, err := logging.New(logging.Options{Level: "warn", Format: "console"})
			if err != nil {
				return err
			}
			sweeper := daemon.NewSweeper(tr, jr, notifications.NewService(cfg), logger)

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				category, err := parseCategory(args[0])
				if err != nil {
					return err
				}
				if err := sweeper.RunCategory(cmd.Context(), category); err != nil {
					return err
				}
				fmt.Fprintf(out, "Swept %s.\n", category)
				return nil
			}

			for _, kind := range []catalog.LedgerKind{catalog.LedgerPrice, catalog.LedgerStatus} {
				if err := sweeper.RunLedger(cmd.Context(), kind); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, "Swept all categories.")
			return nil
		},
	}
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var showSkips bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sweep runs from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			jr, err := journal.Open(cfg.JournalPath())
			if err != nil {
				return err
			}
			defer jr.Close()

			runs, err := jr.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No sweeps recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					string(run.Category),
					fmt.Sprintf("%d", run.Checked),
					fmt.Sprintf("%d", run.Events),
					fmt.Sprintf("%d", run.Skipped),
				})
			}
			fmt.Fprintln(out, renderTable(historyLayout(), rows))

			if !showSkips {
				return nil
			}
			for _, run := range runs {
				if run.Skipped == 0 {
					continue
				}
				skips, err := jr.Skips(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%s %s:\n", run.StartedAt.Local().Format("2006-01-02 15:04"), run.Category)
				for _, skip := range skips {
					fmt.Fprintf(out, "  %s: %s\n", skip.Item, skip.Reason)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().BoolVar(&showSkips, "skips", false, "Show per-item skip reasons")
	return cmd
}

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to the configured destination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := notifications.NewService(cfg).TestNotification(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent.")
			return nil
		},
	}
}
