// Package catalog defines the closed category taxonomy and the per-category
// handling rules the rest of the tracker branches on.
//
// Every category maps to exactly one Spec: which ledger its rows live in,
// how the item is re-identified on later checks, which provider adapter
// serves it, and which notification family its events route to. Adding a
// category means adding one Spec entry; no other package hard-codes
// category lists.
package catalog
