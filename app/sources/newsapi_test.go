package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const testNewsAPIBody = `{
  "status": "ok",
  "totalResults": 3,
  "articles": [
    {
      "source": {"id": "reuters", "name": "Reuters"},
      "author": "Jane Doe",
      "title": "Bitcoin climbs after ETF inflows",
      "description": "Spot bitcoin funds saw record inflows.",
      "url": "https://example.com/inflows",
      "publishedAt": "%s",
      "content": "Full <b>story</b> text"
    },
    {
      "source": {"id": null, "name": "Blog"},
      "title": "Ethereum news without description",
      "description": null,
      "url": "https://example.com/nodesc"
    }
  ]
}`

func TestNewsAPISource_Fetch(t *testing.T) {
	var calls atomic.Int32
	published := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		if r.URL.Path != "/everything" {
			t.Errorf("Expected path /everything, got %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			t.Errorf("Expected API key header, got '%s'", r.Header.Get("X-Api-Key"))
		}
		q := r.URL.Query()
		if q.Get("sortBy") != "publishedAt" || q.Get("language") != "en" || q.Get("pageSize") != "20" {
			t.Errorf("Unexpected query parameters: %s", r.URL.RawQuery)
		}
		if q.Get("from") == "" {
			t.Error("Expected from parameter")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(strings.Replace(testNewsAPIBody, "%s", published, 1)))
	}))
	defer server.Close()

	src := NewNewsAPISource(NewsAPIConfig{
		APIKey:  "secret",
		BaseURL: server.URL + "/",
		Queries: []string{"bitcoin", "ethereum"},
	}, Options{Keywords: []string{"bitcoin", "ethereum"}, MaxAge: 24 * time.Hour})

	items := src.Fetch(context.Background())

	if calls.Load() != 2 {
		t.Errorf("Expected 2 queries, got %d", calls.Load())
	}

	// Both queries return the same article; it is kept once.
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.Source != "NewsAPI-Reuters" {
		t.Errorf("Expected source 'NewsAPI-Reuters', got '%s'", item.Source)
	}
	if item.Content != "Spot bitcoin funds saw record inflows. Full story text" {
		t.Errorf("Unexpected content: %s", item.Content)
	}
	if item.Author != "Jane Doe" {
		t.Errorf("Expected author 'Jane Doe', got '%s'", item.Author)
	}
}

func TestNewsAPISource_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
	}))
	defer server.Close()

	src := NewNewsAPISource(NewsAPIConfig{
		APIKey:  "wrong",
		BaseURL: server.URL,
		Queries: []string{"bitcoin"},
	}, Options{})

	_, err := src.fetch(context.Background())
	if !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("Expected ErrHTTPStatus, got %v", err)
	}

	if items := src.Fetch(context.Background()); len(items) != 0 {
		t.Errorf("Expected empty result, got %d items", len(items))
	}
}

func TestNewsAPISource_NoKey(t *testing.T) {
	src := NewNewsAPISource(NewsAPIConfig{Queries: []string{"bitcoin"}}, Options{})

	_, err := src.fetch(context.Background())
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Expected ErrNoAPIKey, got %v", err)
	}
}
