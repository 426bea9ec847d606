package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/crypto-alerts/app/news"
)

var ErrNoAPIKey = errors.New("newsapi: API key not configured")

var _ Source = (*NewsAPISource)(nil)

type NewsAPIConfig struct {
	APIKey     string
	BaseURL    string
	Queries    []string
	PageSize   int
	QueryDelay time.Duration
}

// NewsAPISource polls the NewsAPI "everything" endpoint with a fixed list of
// search queries.
type NewsAPISource struct {
	*Base
	apiKey     string
	baseURL    string
	queries    []string
	pageSize   int
	queryDelay time.Duration
	maxAge     time.Duration
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

func NewNewsAPISource(cfg NewsAPIConfig, opts Options) *NewsAPISource {
	opts = opts.withDefaults()

	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.QueryDelay < 0 {
		cfg.QueryDelay = 0
	}

	return &NewsAPISource{
		Base:       NewBase("newsapi", opts.Keywords, opts.MaxAge),
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		queries:    cfg.Queries,
		pageSize:   cfg.PageSize,
		queryDelay: cfg.QueryDelay,
		maxAge:     opts.MaxAge,
		httpClient: opts.HTTPClient,
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
	}
}

func (s *NewsAPISource) Fetch(ctx context.Context) []news.Item {
	items, err := s.fetch(ctx)
	if err != nil {
		slog.Warn("Source fetch failed", "source", s.Name(), "error", err)
	}
	if len(items) == 0 {
		return nil
	}
	return s.accept(items)
}

// fetch runs every query. Failed queries are logged and skipped; an error is
// returned only when nothing could be fetched at all.
func (s *NewsAPISource) fetch(ctx context.Context) ([]news.Item, error) {
	if s.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	var (
		items []news.Item
		errs  []error
	)
	seenURLs := make(map[string]bool)

	for i, query := range s.queries {
		if i > 0 && s.queryDelay > 0 {
			select {
			case <-ctx.Done():
				return items, ctx.Err()
			case <-time.After(s.queryDelay):
			}
		}

		articles, err := s.search(ctx, query)
		if err != nil {
			slog.Debug("NewsAPI query failed", "query", query, "error", err)
			errs = append(errs, fmt.Errorf("query %q: %w", query, err))
			continue
		}

		for _, article := range articles {
			item, ok := s.normalizeArticle(article)
			if !ok || seenURLs[item.URL] {
				continue
			}
			seenURLs[item.URL] = true
			items = append(items, item)
		}
	}

	if len(items) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return items, nil
}

func (s *NewsAPISource) search(ctx context.Context, query string) ([]newsAPIArticle, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	from := time.Now().Add(-s.lookback()).Format("2006-01-02")

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", from)
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(s.pageSize))

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, s.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Api-Key", s.apiKey)
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if parsed.Status != "ok" {
		return nil, fmt.Errorf("newsapi error %s: %s", parsed.Code, parsed.Message)
	}

	return parsed.Articles, nil
}

func (s *NewsAPISource) lookback() time.Duration {
	if s.maxAge > 0 {
		return s.maxAge
	}
	return 24 * time.Hour
}

func (s *NewsAPISource) normalizeArticle(article newsAPIArticle) (news.Item, bool) {
	title := news.CleanText(article.Title)
	description := news.CleanText(article.Description)
	if title == "" || description == "" {
		return news.Item{}, false
	}

	content := strings.TrimSpace(description + " " + news.CleanText(article.Content))

	var published *time.Time
	if t, err := time.Parse(time.RFC3339, article.PublishedAt); err == nil {
		published = &t
	}

	source := "NewsAPI-" + strings.TrimSpace(article.Source.Name)

	return news.NewItem(title, content, strings.TrimSpace(article.URL), source, published, strings.TrimSpace(article.Author)), true
}
