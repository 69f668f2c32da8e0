// Package provider adapts external catalogs (storefronts, card markets,
// series sites) into raw observations the tracker core can normalize.
//
// Each adapter owns its site's request shape and markup parsing; the core
// consumes only the Provider interface and the Observation record. Adapters
// impose a per-request timeout on their HTTP client, so callers never block
// on a slow upstream beyond the configured budget. The Registry binds
// category provider keys from the catalog package to concrete adapters.
package provider
