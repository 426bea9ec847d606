package news

import (
	"testing"
	"time"
)

func TestHashStable(t *testing.T) {
	a := Hash("Bitcoin hits record", "https://example.com/a", "coindesk")
	b := Hash("Bitcoin hits record", "https://example.com/a", "coindesk")

	if a != b {
		t.Errorf("Expected equal hashes for identical input, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(a))
	}
}

func TestHashDiffersByField(t *testing.T) {
	base := Hash("title", "https://example.com/a", "coindesk")

	variants := map[string]string{
		"title":  Hash("other title", "https://example.com/a", "coindesk"),
		"url":    Hash("title", "https://example.com/b", "coindesk"),
		"source": Hash("title", "https://example.com/a", "decrypt"),
	}

	for field, hash := range variants {
		if hash == base {
			t.Errorf("Expected hash to change when %s changes", field)
		}
	}

	// Field boundaries are part of the digest input.
	if Hash("ab", "c", "d") == Hash("a", "bc", "d") {
		t.Error("Expected different hashes for shifted field boundaries")
	}
	if Hash("Bitcoin | ETF", "u", "s") == Hash("Bitcoin ", " ETF|u", "s") {
		t.Error("Expected separators inside a field not to collide with field boundaries")
	}
	if Hash("a|b", "", "c") == Hash("a", "b|", "c") {
		t.Error("Expected different hashes when a separator moves between fields")
	}
}

func TestNewItemDefaultsPublishedAt(t *testing.T) {
	before := time.Now()
	item := NewItem("title", "content", "https://example.com", "src", nil, "")

	if item.PublishedAt.Before(before) {
		t.Errorf("Expected published time to default to now, got %v", item.PublishedAt)
	}
	if item.HashID != Hash("title", "https://example.com", "src") {
		t.Errorf("Expected hash to be derived from title, url and source")
	}

	published := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	item = NewItem("title", "content", "https://example.com", "src", &published, "Jane")
	if !item.PublishedAt.Equal(published) {
		t.Errorf("Expected published time %v, got %v", published, item.PublishedAt)
	}
	if item.Author != "Jane" {
		t.Errorf("Expected author 'Jane', got '%s'", item.Author)
	}
}

func TestToMap(t *testing.T) {
	published := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	item := NewItem("t", "c", "u", "s", &published, "a")

	m := item.ToMap()

	expected := map[string]interface{}{
		"title":          "t",
		"content":        "c",
		"url":            "u",
		"source":         "s",
		"published_date": "2024-01-10T12:00:00Z",
		"author":         "a",
		"hash_id":        item.HashID,
	}

	for key, want := range expected {
		if m[key] != want {
			t.Errorf("Expected %s=%v, got %v", key, want, m[key])
		}
	}
}

func TestIsRecent(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour)
	fresh := now.Add(-2 * time.Hour)

	oldItem := NewItem("t", "c", "u", "s", &old, "")
	freshItem := NewItem("t", "c", "u", "s", &fresh, "")

	if oldItem.IsRecent(24*time.Hour, now) {
		t.Error("Expected 48h old item to be stale")
	}
	if !freshItem.IsRecent(24*time.Hour, now) {
		t.Error("Expected 2h old item to be recent")
	}
	if !oldItem.IsRecent(0, now) {
		t.Error("Expected zero max age to disable the check")
	}
}
