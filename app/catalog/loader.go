package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the catalog at path. A missing file yields the built-in
// defaults; any other read or parse problem is an error.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Sources file not found, using defaults", "path", path)
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&c)

	if err := validate(&c); err != nil {
		return nil, fmt.Errorf("invalid sources catalog: %w", err)
	}

	return &c, nil
}

func validate(c *Catalog) error {
	if c == nil {
		return fmt.Errorf("catalog is nil")
	}

	names := make(map[string]bool, len(c.Feeds))
	for i, feed := range c.Feeds {
		if strings.TrimSpace(feed.Name) == "" {
			return fmt.Errorf("feed at index %d: name is required", i)
		}
		if strings.TrimSpace(feed.URL) == "" {
			return fmt.Errorf("feed %s: URL is required", feed.Name)
		}
		if names[feed.Name] {
			return fmt.Errorf("feed %s: duplicate name", feed.Name)
		}
		names[feed.Name] = true
	}

	for i, sub := range c.Subreddits {
		if strings.TrimSpace(sub) == "" {
			return fmt.Errorf("subreddit at index %d is empty", i)
		}
	}

	if c.NewsAPI.PageSize < 0 || c.NewsAPI.PageSize > 100 {
		return fmt.Errorf("news_api page size must be between 1 and 100")
	}

	for keyword, weight := range c.Importance {
		if strings.TrimSpace(keyword) == "" {
			return fmt.Errorf("importance keyword is empty")
		}
		if weight < 1 || weight > 10 {
			return fmt.Errorf("importance weight for %q must be between 1 and 10", keyword)
		}
	}

	for i, asset := range c.Assets {
		if strings.TrimSpace(asset.Symbol) == "" {
			return fmt.Errorf("asset at index %d: symbol is required", i)
		}
		if len(asset.Patterns) == 0 {
			return fmt.Errorf("asset %s: at least one pattern is required", asset.Symbol)
		}
	}

	return nil
}

// EnabledFeeds returns the feeds that are not switched off.
func (c *Catalog) EnabledFeeds() []FeedConfig {
	enabled := make([]FeedConfig, 0, len(c.Feeds))
	for _, feed := range c.Feeds {
		if feed.IsEnabled() {
			enabled = append(enabled, feed)
		}
	}
	return enabled
}
