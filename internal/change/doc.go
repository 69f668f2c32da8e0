// Package change classifies the delta between a fresh observation and the
// ledger's prior row and renders the resulting events as notification text.
package change
