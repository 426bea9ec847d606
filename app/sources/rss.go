package sources

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/crypto-alerts/app/news"
	"github.com/mmcdole/gofeed"
)

const redditFeedURL = "https://www.reddit.com/r/%s/new/.rss"

var _ Source = (*RSSSource)(nil)

// RSSSource reads a single RSS or Atom feed.
type RSSSource struct {
	*Base
	url        string
	httpClient *http.Client
	parser     *gofeed.Parser
	userAgent  string
	timeout    time.Duration
}

func NewRSSSource(name, url string, opts Options) *RSSSource {
	opts = opts.withDefaults()

	return &RSSSource{
		Base:       NewBase(name, opts.Keywords, opts.MaxAge),
		url:        url,
		httpClient: opts.HTTPClient,
		parser:     gofeed.NewParser(),
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
	}
}

// NewSubredditSource follows the newest posts of a subreddit through its
// public RSS feed.
func NewSubredditSource(subreddit string, opts Options) *RSSSource {
	subreddit = strings.TrimPrefix(strings.TrimSpace(subreddit), "r/")
	return NewRSSSource("reddit/r/"+subreddit, fmt.Sprintf(redditFeedURL, subreddit), opts)
}

func (s *RSSSource) URL() string {
	return s.url
}

func (s *RSSSource) Fetch(ctx context.Context) []news.Item {
	items, err := s.fetch(ctx)
	if err != nil {
		slog.Warn("Source fetch failed", "source", s.Name(), "url", s.url, "error", err)
		return nil
	}
	return s.accept(items)
}

func (s *RSSSource) fetch(ctx context.Context) ([]news.Item, error) {
	data, err := s.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	feed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]news.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		item, ok := s.normalizeItem(entry)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func (s *RSSSource) fetchFeed(ctx context.Context) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (s *RSSSource) normalizeItem(entry *gofeed.Item) (news.Item, bool) {
	title := news.CleanText(entry.Title)
	if title == "" {
		return news.Item{}, false
	}

	content := news.CleanText(cmp.Or(entry.Description, entry.Content))

	published := entry.PublishedParsed
	if published == nil {
		published = entry.UpdatedParsed
	}

	return news.NewItem(title, content, strings.TrimSpace(entry.Link), s.Name(), published, extractAuthor(entry)), true
}

func extractAuthor(entry *gofeed.Item) string {
	for _, author := range entry.Authors {
		if author != nil && strings.TrimSpace(author.Name) != "" {
			return strings.TrimSpace(author.Name)
		}
	}
	if entry.Author != nil {
		return strings.TrimSpace(cmp.Or(entry.Author.Name, entry.Author.Email))
	}
	return ""
}
