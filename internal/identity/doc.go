// Package identity decides how a tracked item is re-located on each check:
// by its pinned provider locator for storefront goods, by display name for
// cards and series. Pinning is the anti-drift guarantee — once an item is
// bound to a catalog entry, later checks never re-run the fuzzy name search.
package identity
