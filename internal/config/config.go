package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// DataDir holds the ledger files, the sweep journal, and the daemon
	// lock file.
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Providers contains settings shared by the provider adapters. Base URLs are
// overridable so tests and mirrors can point elsewhere; empty values use each
// adapter's default.
type Providers struct {
	RequestTimeout    int    `toml:"request_timeout"`
	NedgameBaseURL    string `toml:"nedgame_base_url"`
	SteamBaseURL      string `toml:"steam_base_url"`
	CardmarketBaseURL string `toml:"cardmarket_base_url"`
	MangaBaseURL      string `toml:"manga_base_url"`
	AnimeBaseURL      string `toml:"anime_base_url"`
}

// Notifications contains the destinations change events are pushed to.
// Discord webhooks win when configured; otherwise an ntfy topic; otherwise
// notifications are silently dropped.
type Notifications struct {
	// DiscordMainWebhook receives game price events and birthday greetings.
	DiscordMainWebhook string `toml:"discord_main_webhook"`
	// DiscordTCGWebhook receives card price events.
	DiscordTCGWebhook string `toml:"discord_tcg_webhook"`
	// DiscordSeriesWebhook receives anime and manga status events.
	DiscordSeriesWebhook string `toml:"discord_series_webhook"`
	NtfyTopic            string `toml:"ntfy_topic"`
	RequestTimeout       int    `toml:"request_timeout"`
}

// Sweep contains the daemon's timing configuration.
type Sweep struct {
	PriceIntervalHours  int    `toml:"price_interval_hours"`
	StatusIntervalHours int    `toml:"status_interval_hours"`
	KeepaliveBind       string `toml:"keepalive_bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Birthdays contains configuration for the daily birthday greeter.
type Birthdays struct {
	Enabled bool   `toml:"enabled"`
	File    string `toml:"file"`
	// Hour is the local hour of day the daily pass runs at.
	Hour int `toml:"hour"`
}

// Config encapsulates all configuration values.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Providers     Providers     `toml:"providers"`
	Notifications Notifications `toml:"notifications"`
	Sweep         Sweep         `toml:"sweep"`
	Logging       Logging       `toml:"logging"`
	Birthdays     Birthdays     `toml:"birthdays"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pheme/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("pheme.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories daemon operation requires.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PriceLedgerPath returns the price table's file location.
func (c *Config) PriceLedgerPath() string {
	return filepath.Join(c.Paths.DataDir, "price_tracker.csv")
}

// StatusLedgerPath returns the status table's file location.
func (c *Config) StatusLedgerPath() string {
	return filepath.Join(c.Paths.DataDir, "status_tracker.csv")
}

// JournalPath returns the sweep journal's database location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.DataDir, "journal.db")
}

// DaemonLockPath returns the single-instance lock file location.
func (c *Config) DaemonLockPath() string {
	return filepath.Join(c.Paths.DataDir, "pheme.lock")
}

// LogFilePath returns the daemon log file location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "pheme.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the sample configuration file to the given location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
