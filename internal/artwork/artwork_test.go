package artwork_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pheme/internal/artwork"
)

func TestMTGImageFuzzyLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/named" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("fuzzy"); got != "black lotus" {
			t.Errorf("fuzzy param %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"image_uris":{"normal":"https://cards.example/black-lotus.jpg"}}`))
	}))
	defer server.Close()

	client := artwork.NewClient(time.Second, server.URL, "")
	got, err := client.MTGImage(context.Background(), "black lotus")
	if err != nil {
		t.Fatalf("MTGImage: %v", err)
	}
	if got != "https://cards.example/black-lotus.jpg" {
		t.Fatalf("image URL %q", got)
	}
}

func TestMTGImageDoubleFacedCard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"card_faces":[{"image_uris":{"normal":"https://cards.example/front.jpg"}},{"image_uris":{"normal":"https://cards.example/back.jpg"}}]}`))
	}))
	defer server.Close()

	client := artwork.NewClient(time.Second, server.URL, "")
	got, err := client.MTGImage(context.Background(), "delver of secrets")
	if err != nil {
		t.Fatalf("MTGImage: %v", err)
	}
	if got != "https://cards.example/front.jpg" {
		t.Fatalf("expected front face, got %q", got)
	}
}

func TestMTGImageAmbiguousNameMapsTo404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"object":"error"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := artwork.NewClient(time.Second, server.URL, "")
	_, err := client.MTGImage(context.Background(), "bol")
	if !errors.Is(err, artwork.ErrUnknownCard) {
		t.Fatalf("expected ErrUnknownCard, got %v", err)
	}
}

func TestYGOImageReturnsVerifiedURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/card_image/") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpegdata"))
	}))
	defer server.Close()

	client := artwork.NewClient(time.Second, "", server.URL)
	got, err := client.YGOImage(context.Background(), "Dark Magician")
	if err != nil {
		t.Fatalf("YGOImage: %v", err)
	}
	if !strings.HasPrefix(got, server.URL+"/api/card_image/") {
		t.Fatalf("image URL %q", got)
	}
}

func TestYGOImageUnknownCard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := artwork.NewClient(time.Second, "", server.URL)
	_, err := client.YGOImage(context.Background(), "No Such Card")
	if !errors.Is(err, artwork.ErrUnknownCard) {
		t.Fatalf("expected ErrUnknownCard, got %v", err)
	}
}
