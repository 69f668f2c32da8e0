package artwork

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "Pheme-Go/0.1.0"

// ErrUnknownCard is returned when no card matches the given name closely
// enough. The caller renders a "be more specific" message.
var ErrUnknownCard = errors.New("unknown card name")

// Client resolves card artwork URLs.
type Client struct {
	httpClient      *http.Client
	scryfallBaseURL string
	ygoBaseURL      string
}

// NewClient builds an artwork client. Empty base URLs use the public APIs.
func NewClient(timeout time.Duration, scryfallBaseURL, ygoBaseURL string) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if strings.TrimSpace(scryfallBaseURL) == "" {
		scryfallBaseURL = "https://api.scryfall.com"
	}
	if strings.TrimSpace(ygoBaseURL) == "" {
		ygoBaseURL = "https://yugiohprices.com"
	}
	return &Client{
		httpClient:      &http.Client{Timeout: timeout},
		scryfallBaseURL: strings.TrimRight(scryfallBaseURL, "/"),
		ygoBaseURL:      strings.TrimRight(ygoBaseURL, "/"),
	}
}

type scryfallCard struct {
	ImageURIs struct {
		Normal string `json:"normal"`
	} `json:"image_uris"`
	CardFaces []struct {
		ImageURIs struct {
			Normal string `json:"normal"`
		} `json:"image_uris"`
	} `json:"card_faces"`
}

// MTGImage resolves a Magic card's image URL by fuzzy name. Scryfall answers
// 404 when the name matches nothing or more than one card.
func (c *Client) MTGImage(ctx context.Context, name string) (string, error) {
	endpoint := c.scryfallBaseURL + "/cards/named?fuzzy=" + url.QueryEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build scryfall request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("query scryfall: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %q matched no single card", ErrUnknownCard, name)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("scryfall returned %d", resp.StatusCode)
	}

	var card scryfallCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return "", fmt.Errorf("decode scryfall response: %w", err)
	}
	if card.ImageURIs.Normal != "" {
		return card.ImageURIs.Normal, nil
	}
	// Double-faced cards carry images per face.
	for _, face := range card.CardFaces {
		if face.ImageURIs.Normal != "" {
			return face.ImageURIs.Normal, nil
		}
	}
	return "", fmt.Errorf("%w: %q has no image", ErrUnknownCard, name)
}

// YGOImage resolves a Yu-Gi-Oh card's image URL by exact name. The endpoint
// serves the image itself, so the URL is verified and returned as-is.
func (c *Client) YGOImage(ctx context.Context, name string) (string, error) {
	endpoint := c.ygoBaseURL + "/api/card_image/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build ygoprices request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("query ygoprices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: no card named %q", ErrUnknownCard, name)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ygoprices returned %d", resp.StatusCode)
	}
	return endpoint, nil
}
