package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSweep(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateBirthdays()
}

func (c *Config) validateSweep() error {
	if err := ensurePositiveMap(map[string]int{
		"providers.request_timeout":     c.Providers.RequestTimeout,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
		"sweep.price_interval_hours":    c.Sweep.PriceIntervalHours,
		"sweep.status_interval_hours":   c.Sweep.StatusIntervalHours,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateNotifications() error {
	n := c.Notifications
	for key, value := range map[string]string{
		"notifications.discord_main_webhook":   n.DiscordMainWebhook,
		"notifications.discord_tcg_webhook":    n.DiscordTCGWebhook,
		"notifications.discord_series_webhook": n.DiscordSeriesWebhook,
	} {
		if value != "" && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("%s must be an https URL", key)
		}
	}
	return nil
}

func (c *Config) validateBirthdays() error {
	if !c.Birthdays.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Birthdays.File) == "" {
		return errors.New("birthdays.file must be set when birthdays.enabled is true")
	}
	if c.Birthdays.Hour < 0 || c.Birthdays.Hour > 23 {
		return errors.New("birthdays.hour must be between 0 and 23")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
