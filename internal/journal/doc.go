// Package journal persists operational metadata about sweep runs in a small
// SQLite database: one row per run plus the per-item skip reasons. It never
// stores observed values; the ledger files remain the only value store.
package journal
