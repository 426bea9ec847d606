package sources

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lysyi3m/crypto-alerts/app/news"
)

var ErrHTTPStatus = errors.New("unexpected HTTP status")

// Source is one origin of news. Fetch never fails: transient problems are
// logged and yield an empty result. Implementations own their dedup memory
// and must not be fetched concurrently with themselves.
type Source interface {
	Name() string
	Fetch(ctx context.Context) []news.Item
	IsDuplicate(item news.Item) bool
	FilterRelevant(items []news.Item, keywords []string) []news.Item
	Close() error
}

type Options struct {
	HTTPClient *http.Client
	UserAgent  string
	Keywords   []string
	MaxAge     time.Duration
	Timeout    time.Duration
}

func (o Options) withDefaults() Options {
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	if o.UserAgent == "" {
		o.UserAgent = "CryptoAlerts/1.0"
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}
