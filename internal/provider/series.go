package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pheme/internal/catalog"
)

// MangaWeb scrapes a manga reader site for the latest released chapter of a
// series. Series identity is the display name; there is no stable locator.
type MangaWeb struct {
	baseURL string
	client  *http.Client
}

// NewMangaWeb builds the adapter.
func NewMangaWeb(baseURL string, timeout time.Duration) *MangaWeb {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://mangarock.herokuapp.com"
	}
	return &MangaWeb{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

// Search returns matching series with their most recent chapter.
func (m *MangaWeb) Search(ctx context.Context, _ catalog.Category, term string) ([]Observation, error) {
	resp, err := get(ctx, m.client, m.baseURL+"/search/story/"+searchSlug(term, "_"))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := parseDocument(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse manga search: %w", ErrProvider, err)
	}

	var results []Observation
	for _, item := range elementsWithClass(doc, "div", "story_item") {
		title := nodeText(firstWithClass(item, "h3", "story_name"))
		chapter := nodeText(firstWithClass(item, "em", "story_chapter"))
		if title == "" || chapter == "" {
			continue
		}
		results = append(results, Observation{Name: title, RawValue: chapter})
	}
	return results, nil
}

// FetchByLocator is unused: series identity is the display name.
func (m *MangaWeb) FetchByLocator(context.Context, catalog.Category, string) (Observation, error) {
	return Observation{}, ErrLocatorUnsupported
}

// AnimeWeb scrapes an anime streaming site for the latest aired episode of a
// series. Series identity is the display name; there is no stable locator.
type AnimeWeb struct {
	baseURL string
	client  *http.Client
}

// NewAnimeWeb builds the adapter.
func NewAnimeWeb(baseURL string, timeout time.Duration) *AnimeWeb {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://animebee.to"
	}
	return &AnimeWeb{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

// Search returns matching series with their episode tick.
func (a *AnimeWeb) Search(ctx context.Context, _ catalog.Category, term string) ([]Observation, error) {
	resp, err := get(ctx, a.client, a.baseURL+"/search?keyword="+searchSlug(term, "+"))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := parseDocument(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse anime search: %w", ErrProvider, err)
	}

	var results []Observation
	for _, item := range elementsWithClass(doc, "div", "flw-item", "flw-item-big") {
		title := nodeText(firstWithClass(item, "h3", "film-name"))
		episode := nodeText(firstWithClass(item, "div", "tick-item", "tick-eps"))
		if title == "" || episode == "" {
			continue
		}
		results = append(results, Observation{Name: title, RawValue: episode})
	}
	return results, nil
}

// FetchByLocator is unused: series identity is the display name.
func (a *AnimeWeb) FetchByLocator(context.Context, catalog.Category, string) (Observation, error) {
	return Observation{}, ErrLocatorUnsupported
}
