package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"pheme/internal/catalog"
	"pheme/internal/config"
	"pheme/internal/ledger"
	"pheme/internal/logging"
	"pheme/internal/provider"
	"pheme/internal/tracker"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// newRegistry wires every provider adapter with the configured base URLs and
// timeout.
func newRegistry(cfg *config.Config) *provider.Registry {
	timeout := time.Duration(cfg.Providers.RequestTimeout) * time.Second
	registry := provider.NewRegistry()
	registry.Register("nedgame", provider.NewNedgame(cfg.Providers.NedgameBaseURL, timeout))
	registry.Register("steam", provider.NewSteam(cfg.Providers.SteamBaseURL, timeout))
	registry.Register("cardmarket", provider.NewCardmarket(cfg.Providers.CardmarketBaseURL, timeout))
	registry.Register("mangaweb", provider.NewMangaWeb(cfg.Providers.MangaBaseURL, timeout))
	registry.Register("animeweb", provider.NewAnimeWeb(cfg.Providers.AnimeBaseURL, timeout))
	return registry
}

// newTracker opens the ledgers and builds the tracker. CLI commands log
// quietly; the daemon command builds its own logger.
func (c *commandContext) newTracker() (*tracker.Tracker, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	prices, err := ledger.OpenPrice(cfg.PriceLedgerPath())
	if err != nil {
		return nil, err
	}
	statuses, err := ledger.OpenStatus(cfg.StatusLedgerPath())
	if err != nil {
		return nil, err
	}
	quiet, err := logging.New(logging.Options{Level: "warn", Format: "console"})
	if err != nil {
		return nil, err
	}
	return tracker.New(newRegistry(cfg), prices, statuses, quiet), nil
}

func parseCategory(value string) (catalog.Category, error) {
	category, ok := catalog.Parse(value)
	if !ok {
		return "", fmt.Errorf("unknown category %q, valid choices are %s", value, catalog.ValidChoices())
	}
	return category, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
