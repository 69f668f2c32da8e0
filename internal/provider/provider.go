package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pheme/internal/catalog"
)

const userAgent = "Pheme-Go/0.1.0"

// ErrProvider marks failures that originate in an external data source:
// network errors, unexpected markup, upstream outages. Background sweeps
// treat these as per-item skips; user-initiated tracking surfaces them.
var ErrProvider = errors.New("provider error")

// ErrLocatorUnsupported is returned by adapters whose categories resolve
// identity by name and therefore never store a locator.
var ErrLocatorUnsupported = errors.New("locator fetch not supported")

// Observation is one raw provider result before normalization.
type Observation struct {
	// Name is the display name exactly as the provider catalogs it.
	Name string
	// RawValue is the primary value text: a price string for price
	// categories, the latest episode/chapter text for status categories.
	RawValue string
	// RawTiers carries condition-labelled price tiers ("New: € 59,99",
	// "Used: € 39,99") for storefronts that list more than one price.
	RawTiers []string
	// Locator is the provider's stable URL for the catalog entry.
	Locator string
	// RawDiscount is a side-channel discounted price, when on offer.
	RawDiscount string
	// Aux is display-only metadata (card expansion name).
	Aux string
}

// Provider fetches raw observations from one external catalog. Adapters own
// all HTML/JSON parsing; nothing downstream touches wire formats.
type Provider interface {
	// Search returns provider results for a free-text term, most relevant
	// first.
	Search(ctx context.Context, category catalog.Category, term string) ([]Observation, error)
	// FetchByLocator re-fetches a single catalog entry by its stored URL.
	FetchByLocator(ctx context.Context, category catalog.Category, locator string) (Observation, error)
}

// Registry resolves the adapter serving a category.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register installs an adapter under a provider key.
func (r *Registry) Register(key string, p Provider) {
	r.providers[key] = p
}

// ForCategory returns the adapter configured for a category.
func (r *Registry) ForCategory(category catalog.Category) (Provider, error) {
	spec, ok := catalog.Lookup(category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	p, ok := r.providers[spec.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter registered for %q", ErrProvider, spec.Provider)
	}
	return p, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func get(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrProvider, err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %d", ErrProvider, url, resp.StatusCode)
	}
	return resp, nil
}

func searchSlug(term, spaceReplacement string) string {
	return strings.ReplaceAll(strings.TrimSpace(term), " ", spaceReplacement)
}
