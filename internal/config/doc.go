// Package config loads, normalizes, and validates the TOML configuration
// that drives the tracker daemon and CLI.
package config
