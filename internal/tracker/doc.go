// Package tracker orchestrates the check cycle: resolve an item's current
// observation, normalize it, upsert the ledger row, and classify the delta.
// Track is user-initiated and fails loudly; Sweep is the background path and
// degrades per item, reporting skips instead of aborting.
package tracker
