package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"pheme/internal/catalog"
)

// Nedgame scrapes the nedgame.nl storefront for physical game prices.
// Listings carry up to two condition tiers (new and used); both are kept on
// the observation so the normalizer can pick the authoritative one.
type Nedgame struct {
	baseURL string
	client  *http.Client
}

// NewNedgame builds the adapter. baseURL defaults to the public storefront.
func NewNedgame(baseURL string, timeout time.Duration) *Nedgame {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://www.nedgame.nl"
	}
	return &Nedgame{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

// Search returns the most relevant product listings for a term.
func (n *Nedgame) Search(ctx context.Context, _ catalog.Category, term string) ([]Observation, error) {
	url := n.baseURL + "/zoek/zoek:" + searchSlug(term, "_") + "/&sorteer=relevantie"
	resp, err := get(ctx, n.client, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := parseDocument(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse nedgame search: %w", ErrProvider, err)
	}

	var results []Observation
	for _, product := range elementsWithClass(doc, "div", "productShopHeader") {
		title := nodeText(firstWithClass(product, "div", "title"))
		link := attrValue(firstWithClass(firstWithClass(product, "div", "titlewrapper"), "a", "productTitleLink"), "href")
		if title == "" || link == "" {
			continue
		}
		results = append(results, Observation{
			Name:     title,
			RawTiers: conditionTiers(product),
			Locator:  link,
		})
	}
	return results, nil
}

// FetchByLocator re-reads one product page by its stored URL.
func (n *Nedgame) FetchByLocator(ctx context.Context, _ catalog.Category, locator string) (Observation, error) {
	resp, err := get(ctx, n.client, locator)
	if err != nil {
		return Observation{}, err
	}
	defer resp.Body.Close()

	doc, err := parseDocument(resp.Body)
	if err != nil {
		return Observation{}, fmt.Errorf("%w: parse nedgame product: %w", ErrProvider, err)
	}

	title := nodeText(firstWithClass(doc, "div", "productTitle", "show-for-mobile"))
	if title == "" {
		return Observation{}, fmt.Errorf("%w: product title missing at %s", ErrProvider, locator)
	}
	return Observation{
		Name:     title,
		RawTiers: conditionTiers(doc),
		Locator:  locator,
	}, nil
}

// conditionTiers pairs each condition label with its price, in page order.
// The storefront labels conditions in Dutch; pre-orders price like new stock.
func conditionTiers(root *html.Node) []string {
	buy := firstWithClass(root, "div", "buy")
	if buy == nil {
		return nil
	}
	states := elementsWithClass(buy, "div", "staat")
	prices := elementsWithClass(buy, "div", "currentprice")

	count := len(states)
	if len(prices) < count {
		count = len(prices)
	}
	tiers := make([]string, 0, count)
	for i := 0; i < count; i++ {
		label := nodeText(states[i])
		label = strings.ReplaceAll(label, "Nieuw", "New")
		label = strings.ReplaceAll(label, "Gebruikt", "Used")
		label = strings.ReplaceAll(label, "Pre-Order", "New")
		tiers = append(tiers, label+": "+nodeText(prices[i]))
	}
	return tiers
}
