package alerts

import (
	"time"
)

// Alert is the persisted record of an item that passed the threshold. The
// JSON field names are read by external dashboards and must stay stable.
type Alert struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	URL             string   `json:"url"`
	Source          string   `json:"source"`
	PublishedDate   string   `json:"published_date"`
	Author          string   `json:"author"`
	HashID          string   `json:"hash_id"`
	Importance      int      `json:"importance"`
	Sentiment       string   `json:"sentiment"`
	Summary         string   `json:"summary"`
	TradingSignal   string   `json:"trading_signal"`
	AffectedCryptos []string `json:"affected_cryptos"`
	TimeHorizon     string   `json:"time_horizon"`
	Confidence      int      `json:"confidence"`
	CryptoMentions  []string `json:"crypto_mentions"`
	Timestamp       string   `json:"timestamp"`
}

func (a *Alert) GeneratedAt() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, a.Timestamp)
}

type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Stats struct {
	TotalAlerts        int            `json:"total_alerts"`
	AvgImportance      float64        `json:"avg_importance"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
	HighestImportance  int            `json:"highest_importance"`
	TopSources         []Count        `json:"top_sources"`
	TopCryptos         []Count        `json:"top_cryptos"`
	WindowHours        float64        `json:"window_hours"`
	Skipped            int            `json:"skipped_records"`
}
