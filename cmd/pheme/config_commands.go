package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pheme/internal/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(targetPath)
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			} else {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return err
				}
				path = expanded
			}

			if _, err := os.Stat(path); err == nil && !overwrite {
				return fmt.Errorf("%s already exists, pass --overwrite to replace it", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("stat config: %w", err)
			}

			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "path", "", "Where to write the file (default: the standard config location)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var configFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolvedPath, exists, err := config.Load(strings.TrimSpace(configFlag))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Configuration file: %s\n\n", resolvedPath)
			} else {
				fmt.Fprintf(out, "No configuration file found, showing defaults (would load %s).\n\n", resolvedPath)
			}

			rows := [][]string{
				{"paths.data_dir", cfg.Paths.DataDir},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"providers.request_timeout", fmt.Sprintf("%ds", cfg.Providers.RequestTimeout)},
				{"notifications.discord_main_webhook", redactSecret(cfg.Notifications.DiscordMainWebhook)},
				{"notifications.discord_tcg_webhook", redactSecret(cfg.Notifications.DiscordTCGWebhook)},
				{"notifications.discord_series_webhook", redactSecret(cfg.Notifications.DiscordSeriesWebhook)},
				{"notifications.ntfy_topic", cfg.Notifications.NtfyTopic},
				{"sweep.price_interval_hours", fmt.Sprintf("%d", cfg.Sweep.PriceIntervalHours)},
				{"sweep.status_interval_hours", fmt.Sprintf("%d", cfg.Sweep.StatusIntervalHours)},
				{"sweep.keepalive_bind", cfg.Sweep.KeepaliveBind},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
				{"birthdays.enabled", fmt.Sprintf("%t", cfg.Birthdays.Enabled)},
				{"birthdays.file", cfg.Birthdays.File},
				{"birthdays.hour", fmt.Sprintf("%d", cfg.Birthdays.Hour)},
			}
			fmt.Fprintln(out, renderTable(settingsLayout(), rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	cmd.Annotations = map[string]string{"skipConfigLoad": "true"}
	return cmd
}

// redactSecret keeps enough of a webhook URL to recognize it without leaking
// the token.
func redactSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 40 {
		return "(set)"
	}
	return value[:40] + "..."
}
