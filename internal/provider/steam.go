package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pheme/internal/catalog"
)

// Steam scrapes the Steam storefront for digital game prices. Discounted
// listings expose the reduced price in a separate element; it is carried as
// the observation's side-channel discount rather than replacing the list
// price.
type Steam struct {
	baseURL string
	client  *http.Client
}

// NewSteam builds the adapter. baseURL defaults to the public storefront.
func NewSteam(baseURL string, timeout time.Duration) *Steam {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://store.steampowered.com"
	}
	return &Steam{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

// Search returns the most relevant store results for a term.
func (s *Steam) Search(ctx context.Context, _ catalog.Category, term string) ([]Observation, error) {
	url := s.baseURL + "/search/?term=" + searchSlug(term, "+")
	resp, err := get(ctx, s.client, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := parseDocument(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse steam search: %w", ErrProvider, err)
	}

	rows := elementsWithClass(doc, "a", "search_result_row")
	var results []Observation
	for _, row := range rows {
		combined := firstWithClass(row, "div", "responsive_search_name_combined")
		if combined == nil {
			continue
		}
		title := nodeText(firstWithClass(combined, "span", "title"))
		locator := attrValue(row, "href")
		if title == "" || locator == "" {
			continue
		}

		obs := Observation{Name: title, Locator: locator}
		if discounted := firstWithClass(combined, "div", "search_price", "discounted"); discounted != nil {
			// Discounted rows render "<original>€ <discounted>€" in one cell.
			original, reduced := splitDiscountCell(nodeText(discounted))
			if original == "" {
				continue
			}
			obs.RawValue = original
			obs.RawDiscount = reduced
		} else if price := firstWithClass(combined, "div", "search_price"); price != nil {
			obs.RawValue = nodeText(price)
		}
		if strings.TrimSpace(obs.RawValue) == "" {
			continue
		}
		results = append(results, obs)
	}
	return results, nil
}

// FetchByLocator re-reads one store page by its stored URL.
func (s *Steam) FetchByLocator(ctx context.Context, _ catalog.Category, locator string) (Observation, error) {
	resp, err := get(ctx, s.client, locator)
	if err != nil {
		return Observation{}, err
	}
	defer resp.Body.Close()

	doc, err := parseDocument(resp.Body)
	if err != nil {
		return Observation{}, fmt.Errorf("%w: parse steam app page: %w", ErrProvider, err)
	}

	title := nodeText(firstWithClass(doc, "div", "apphub_AppName"))
	if title == "" {
		return Observation{}, fmt.Errorf("%w: app title missing at %s", ErrProvider, locator)
	}

	obs := Observation{Name: title, Locator: locator}
	if price := firstWithClass(doc, "div", "game_purchase_price", "price"); price != nil {
		obs.RawValue = nodeText(price)
	}
	if final := firstWithClass(doc, "div", "discount_final_price"); final != nil {
		obs.RawDiscount = nodeText(final)
		if obs.RawValue == "" {
			if original := firstWithClass(doc, "div", "discount_original_price"); original != nil {
				obs.RawValue = nodeText(original)
			}
		}
	}
	if strings.TrimSpace(obs.RawValue) == "" {
		return Observation{}, fmt.Errorf("%w: no price listed at %s", ErrProvider, locator)
	}
	return obs, nil
}

// splitDiscountCell separates the struck-through original price from the
// discounted one. Free-to-play promotions have no second amount.
func splitDiscountCell(cell string) (original, reduced string) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return "", ""
	}
	idx := strings.Index(cell, "€")
	if idx < 0 {
		return cell, ""
	}
	original = strings.TrimSpace(cell[:idx]) + "€"
	reduced = strings.TrimSpace(cell[idx+len("€"):])
	if reduced != "" && !strings.Contains(reduced, "€") {
		reduced += "€"
	}
	return original, reduced
}
