// Package artwork looks up card images for the show command: Scryfall's
// fuzzy-name API for Magic cards, the YGOPrices image endpoint for Yu-Gi-Oh.
package artwork
