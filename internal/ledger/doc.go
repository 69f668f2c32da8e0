// Package ledger persists the last known observation per tracked item in
// two pipe-delimited flat tables: one for prices, one for release status.
//
// The tables are maps, not append logs: at most one row exists per
// (identity, category) key and Upsert is the only mutation path. Writes
// replace the whole file atomically (temp file + rename) so interleaved
// readers always see a consistent snapshot, and a flock sidecar file keeps
// the daemon and ad-hoc CLI runs from clobbering each other.
//
// Treat this package as the single source of truth for row semantics; a new
// column means updating the Schema and both codecs together.
package ledger
