package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"pheme/internal/catalog"
	"pheme/internal/provider"
)

// Error reports an observation that could not be reduced to a canonical
// value. Nothing carrying this error may be persisted to a ledger.
type Error struct {
	Raw    string
	Reason string
}

func (e *Error) Error() string {
	if e.Raw == "" {
		return "normalize: " + e.Reason
	}
	return fmt.Sprintf("normalize %q: %s", e.Raw, e.Reason)
}

// Price reduces a raw observation to a canonical non-negative amount.
//
// Physical goods list condition tiers: with two tiers the second (used)
// price is authoritative, with one tier that tier is, and with none the item
// has no trackable price. Digital storefronts use textual free-to-play
// sentinels for zero-cost items.
func Price(category catalog.Category, obs provider.Observation) (float64, error) {
	spec, ok := catalog.Lookup(category)
	if !ok || spec.Ledger != catalog.LedgerPrice {
		return 0, &Error{Reason: fmt.Sprintf("category %q has no price ledger", category)}
	}

	if category == catalog.CategoryPhysical {
		return priceFromTiers(obs.RawTiers)
	}

	raw := strings.TrimSpace(obs.RawValue)
	if raw == "" {
		return 0, &Error{Reason: "no price available"}
	}
	if isFreeSentinel(raw) {
		return 0, nil
	}
	return Amount(raw)
}

// Status reduces a raw observation to the opaque progress scalar. It is
// compared only for equality, never arithmetically.
func Status(obs provider.Observation) (string, error) {
	value := strings.TrimSpace(obs.RawValue)
	if value == "" {
		return "", &Error{Reason: "no status available"}
	}
	return value, nil
}

// Discount trims the side-channel discounted price, empty when absent.
func Discount(obs provider.Observation) string {
	return strings.TrimSpace(obs.RawDiscount)
}

func priceFromTiers(tiers []string) (float64, error) {
	var authoritative string
	switch len(tiers) {
	case 0:
		return 0, &Error{Reason: "no price available"}
	case 1:
		authoritative = tiers[0]
	default:
		// Second tier is the used price.
		authoritative = tiers[1]
	}

	_, amount, found := strings.Cut(authoritative, ":")
	if !found {
		amount = authoritative
	}
	return Amount(amount)
}

// Amount parses one locale-formatted price string into a canonical value.
// Handles the decimal comma, dot thousand separators, currency symbols, and
// the storefront convention of a trailing dash standing for "00" cents.
func Amount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &Error{Raw: raw, Reason: "empty amount"}
	}
	if isFreeSentinel(s) {
		return 0, nil
	}

	s = strings.NewReplacer("€", " ", "$", " ", "£", " ").Replace(s)
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, &Error{Raw: raw, Reason: "no digits"}
	}
	s = fields[0]

	if strings.Contains(s, ",") {
		// Comma is the decimal separator; any dots are thousands noise.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	// "59.-" means fifty-nine euros and zero cents.
	s = strings.ReplaceAll(s, "-", "00")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &Error{Raw: raw, Reason: "not a number"}
	}
	if value < 0 {
		return 0, &Error{Raw: raw, Reason: "negative amount"}
	}
	return value, nil
}

// FormatAmount renders a canonical amount the way ledger rows and event
// messages print prices.
func FormatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func isFreeSentinel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free", "free to play":
		return true
	}
	return false
}
