package sources

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lysyi3m/crypto-alerts/app/news"
)

// Base holds the per-adapter seen set and relevance settings shared by every
// adapter. The seen set lives as long as the adapter and is never persisted.
type Base struct {
	name     string
	keywords []string
	maxAge   time.Duration
	seen     map[string]struct{}
	mu       sync.Mutex
}

func NewBase(name string, keywords []string, maxAge time.Duration) *Base {
	return &Base{
		name:     name,
		keywords: keywords,
		maxAge:   maxAge,
		seen:     make(map[string]struct{}),
	}
}

func (b *Base) Name() string {
	return b.name
}

// IsDuplicate records the item's hash and reports whether it had been seen
// before.
func (b *Base) IsDuplicate(item news.Item) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.seen[item.HashID]; ok {
		return true
	}
	b.seen[item.HashID] = struct{}{}
	return false
}

func (b *Base) SeenCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.seen)
}

// FilterRelevant drops duplicates first and then keeps items whose title or
// content mentions at least one keyword. An empty keyword list keeps every
// new item.
func (b *Base) FilterRelevant(items []news.Item, keywords []string) []news.Item {
	relevant := make([]news.Item, 0, len(items))
	for _, item := range items {
		if b.IsDuplicate(item) {
			continue
		}
		if len(keywords) > 0 && !matchesAny(item.Text(), keywords) {
			continue
		}
		relevant = append(relevant, item)
	}
	return relevant
}

func (b *Base) Close() error {
	return nil
}

// accept runs the age check and then FilterRelevant with the adapter's own
// keywords.
func (b *Base) accept(items []news.Item) []news.Item {
	now := time.Now()
	recent := make([]news.Item, 0, len(items))
	for _, item := range items {
		if item.IsRecent(b.maxAge, now) {
			recent = append(recent, item)
		}
	}

	relevant := b.FilterRelevant(recent, b.keywords)

	slog.Debug("Source items accepted",
		"source", b.name,
		"total", len(items),
		"stale", len(items)-len(recent),
		"relevant", len(relevant))

	return relevant
}

func matchesAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
