package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeProviders()
	c.normalizeNotifications()
	c.normalizeSweep()
	c.normalizeLogging()
	return c.normalizeBirthdays()
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProviders() {
	if c.Providers.RequestTimeout <= 0 {
		c.Providers.RequestTimeout = defaultProviderTimeout
	}
	c.Providers.NedgameBaseURL = strings.TrimSpace(c.Providers.NedgameBaseURL)
	c.Providers.SteamBaseURL = strings.TrimSpace(c.Providers.SteamBaseURL)
	c.Providers.CardmarketBaseURL = strings.TrimSpace(c.Providers.CardmarketBaseURL)
	c.Providers.MangaBaseURL = strings.TrimSpace(c.Providers.MangaBaseURL)
	c.Providers.AnimeBaseURL = strings.TrimSpace(c.Providers.AnimeBaseURL)
}

func (c *Config) normalizeNotifications() {
	n := &c.Notifications
	n.DiscordMainWebhook = strings.TrimSpace(n.DiscordMainWebhook)
	n.DiscordTCGWebhook = strings.TrimSpace(n.DiscordTCGWebhook)
	n.DiscordSeriesWebhook = strings.TrimSpace(n.DiscordSeriesWebhook)
	n.NtfyTopic = strings.TrimSpace(n.NtfyTopic)
	if n.DiscordMainWebhook == "" {
		if value, ok := os.LookupEnv("PHEME_DISCORD_WEBHOOK"); ok {
			n.DiscordMainWebhook = strings.TrimSpace(value)
		}
	}
	if n.RequestTimeout <= 0 {
		n.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeSweep() {
	if c.Sweep.PriceIntervalHours <= 0 {
		c.Sweep.PriceIntervalHours = defaultPriceIntervalHours
	}
	if c.Sweep.StatusIntervalHours <= 0 {
		c.Sweep.StatusIntervalHours = defaultStatusIntervalHours
	}
	c.Sweep.KeepaliveBind = strings.TrimSpace(c.Sweep.KeepaliveBind)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeBirthdays() error {
	if strings.TrimSpace(c.Birthdays.File) == "" {
		c.Birthdays.File = defaultBirthdayFile
	}
	expanded, err := expandPath(c.Birthdays.File)
	if err != nil {
		return fmt.Errorf("birthdays.file: %w", err)
	}
	c.Birthdays.File = expanded
	return nil
}
