package sources

import (
	"time"

	"github.com/lysyi3m/crypto-alerts/app/catalog"
)

type Selection struct {
	RSS        bool
	NewsAPI    bool
	Social     bool
	NewsAPIKey string
}

// Build constructs one adapter per enabled origin in the catalog. NewsAPI is
// left out without a key.
func Build(c *catalog.Catalog, sel Selection, opts Options) []Source {
	opts.Keywords = c.Keywords

	var srcs []Source

	if sel.RSS {
		for _, feed := range c.EnabledFeeds() {
			srcs = append(srcs, NewRSSSource(feed.Name, feed.URL, opts))
		}
	}

	if sel.NewsAPI && sel.NewsAPIKey != "" {
		srcs = append(srcs, NewNewsAPISource(NewsAPIConfig{
			APIKey:     sel.NewsAPIKey,
			BaseURL:    c.NewsAPI.BaseURL,
			Queries:    c.NewsAPI.Queries,
			PageSize:   c.NewsAPI.PageSize,
			QueryDelay: time.Second,
		}, opts))
	}

	if sel.Social {
		for _, sub := range c.Subreddits {
			srcs = append(srcs, NewSubredditSource(sub, opts))
		}
	}

	return srcs
}

func Names(srcs []Source) []string {
	names := make([]string, 0, len(srcs))
	for _, src := range srcs {
		names = append(names, src.Name())
	}
	return names
}
