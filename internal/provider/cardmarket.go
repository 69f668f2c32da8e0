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

// Cardmarket scrapes the Cardmarket singles listing for trading card prices.
// One adapter serves all three card games; the category selects the game
// section of the site. Results are requested cheapest-first so the first
// exact name match is the lowest available price.
type Cardmarket struct {
	baseURL string
	client  *http.Client
}

// NewCardmarket builds the adapter. baseURL defaults to the public site.
func NewCardmarket(baseURL string, timeout time.Duration) *Cardmarket {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://www.cardmarket.com"
	}
	return &Cardmarket{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

var cardmarketSections = map[catalog.Category]string{
	catalog.CategoryMTG:     "/en/Magic/Products/Singles?idCategory=1&idExpansion=0&onlyAvailable=on&idRarity=0&sortBy=price_asc&perSite=20&searchString=",
	catalog.CategoryYGO:     "/en/YuGiOh/Products/Singles?idCategory=5&idExpansion=0&onlyAvailable=on&idRarity=0&sortBy=price_asc&perSite=20&searchString=",
	catalog.CategoryPokemon: "/en/Pokemon/Products/Singles?idExpansion=0&onlyAvailable=on&idRarity=0&sortBy=price_asc&perSite=30&searchString=",
}

// Search lists available singles matching a card name, cheapest first.
func (c *Cardmarket) Search(ctx context.Context, category catalog.Category, term string) ([]Observation, error) {
	section, ok := cardmarketSections[category]
	if !ok {
		return nil, fmt.Errorf("%w: cardmarket does not serve category %q", ErrProvider, category)
	}
	resp, err := get(ctx, c.client, c.baseURL+section+searchSlug(term, "+"))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := parseDocument(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse cardmarket listing: %w", ErrProvider, err)
	}

	names := elementsWithClass(doc, "div", "col-10", "col-md-8")
	expansions := elementsWithClass(doc, "div", "col-icon", "small")
	prices := elementsWithClass(doc, "div", "col-price")

	count := len(names)
	if len(prices) < count {
		count = len(prices)
	}
	var results []Observation
	for i := 0; i < count; i++ {
		name := nodeText(names[i])
		price := nodeText(prices[i])
		// The listing repeats its column headers as the first row.
		if name == "" || name == "Name" || price == "From" {
			continue
		}
		var expansion string
		if i < len(expansions) {
			expansion = expansionTitle(expansions[i])
		}
		results = append(results, Observation{
			Name:     name,
			RawValue: price,
			Aux:      expansion,
		})
	}
	return results, nil
}

// FetchByLocator is unused: card identity is the exact card name.
func (c *Cardmarket) FetchByLocator(context.Context, catalog.Category, string) (Observation, error) {
	return Observation{}, ErrLocatorUnsupported
}

// expansionTitle pulls the expansion name from the set icon's tooltip.
func expansionTitle(cell *html.Node) string {
	if title := attrValue(cell, "title"); title != "" {
		return title
	}
	var found string
	walk(cell, func(n *html.Node) {
		if found == "" {
			if title := attrValue(n, "title"); title != "" {
				found = title
			}
		}
	})
	return found
}
