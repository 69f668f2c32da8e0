package identity

import (
	"context"
	"errors"
	"fmt"

	"pheme/internal/catalog"
	"pheme/internal/provider"
)

// ErrAmbiguous marks a name search that bound to nothing: zero provider
// results, or zero exact-name matches for categories that require one. The
// caller surfaces a user-facing message and must not touch any ledger row.
var ErrAmbiguous = errors.New("ambiguous search")

// Resolver binds a (category, search term) pair to one provider catalog
// entry and returns its current observation.
type Resolver struct {
	registry *provider.Registry
}

// NewResolver builds a resolver over the configured provider registry.
func NewResolver(registry *provider.Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve locates an item's current observation.
//
// When the category pins identity by locator and a prior locator is known,
// the provider is queried by that stored URL and the original search term is
// never re-run; a fuzzy name search could bind a newer release that shadows
// the intended entry. Name-identity categories and first-time tracking run a
// name search and bind the top result, after the category's exact-name
// filter when one applies.
func (r *Resolver) Resolve(ctx context.Context, category catalog.Category, search, priorLocator string) (provider.Observation, error) {
	spec, ok := catalog.Lookup(category)
	if !ok {
		return provider.Observation{}, fmt.Errorf("unknown category %q", category)
	}
	p, err := r.registry.ForCategory(category)
	if err != nil {
		return provider.Observation{}, err
	}

	if spec.Identity == catalog.IdentityLocator && priorLocator != "" {
		return p.FetchByLocator(ctx, category, priorLocator)
	}

	results, err := p.Search(ctx, category, search)
	if err != nil {
		return provider.Observation{}, err
	}
	if spec.ExactMatch {
		results = exactMatches(results, search)
	}
	if len(results) == 0 {
		return provider.Observation{}, fmt.Errorf("%w: no results for %q in %s", ErrAmbiguous, search, category)
	}
	return results[0], nil
}

func exactMatches(results []provider.Observation, name string) []provider.Observation {
	matched := results[:0]
	for _, obs := range results {
		if obs.Name == name {
			matched = append(matched, obs)
		}
	}
	return matched
}
