package testsupport

import (
	"path/filepath"
	"testing"

	"pheme/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Birthdays.File = filepath.Join(base, "birthdays.csv")
	cfg.Sweep.KeepaliveBind = ""

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithNtfyTopic points notifications at the given endpoint.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// WithDiscordWebhooks sets the per-family Discord webhooks.
func WithDiscordWebhooks(main, tcg, series string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.DiscordMainWebhook = main
		cfg.Notifications.DiscordTCGWebhook = tcg
		cfg.Notifications.DiscordSeriesWebhook = series
	}
}
