package alerts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lysyi3m/crypto-alerts/app/analysis"
	"github.com/lysyi3m/crypto-alerts/app/news"
)

const (
	filePrefix     = "alert_"
	fileExt        = ".json"
	fileTimeFormat = "20060102_150405.000000000"
	topN           = 5
)

// Store decides which assessed items become alerts and keeps one JSON file
// per alert in a flat directory. Files are written once and never modified,
// so readers can scan the directory without coordination.
type Store struct {
	dir       string
	threshold int
	extractor *MentionExtractor
	now       func() time.Time
	mu        sync.Mutex
}

func NewStore(dir string, threshold int, extractor *MentionExtractor) (*Store, error) {
	if threshold < analysis.MinScore || threshold > analysis.MaxScore {
		return nil, fmt.Errorf("threshold must be between %d and %d, got %d", analysis.MinScore, analysis.MaxScore, threshold)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create alerts directory: %w", err)
	}

	if extractor == nil {
		extractor = &MentionExtractor{}
	}

	return &Store{
		dir:       dir,
		threshold: threshold,
		extractor: extractor,
		now:       time.Now,
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Threshold() int {
	return s.threshold
}

func (s *Store) ShouldAlert(a analysis.Assessment) bool {
	return a.Importance >= s.threshold
}

// Process persists and returns an alert when the assessment reaches the
// threshold. Below the threshold it returns nil and writes nothing.
func (s *Store) Process(item news.Item, a analysis.Assessment) (*Alert, error) {
	if !s.ShouldAlert(a) {
		return nil, nil
	}

	generatedAt := s.now()
	alert := s.build(item, a, generatedAt)

	path, err := s.save(alert, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save alert: %w", err)
	}

	slog.Debug("Alert saved", "path", path, "importance", alert.Importance, "source", alert.Source)

	return alert, nil
}

func (s *Store) build(item news.Item, a analysis.Assessment, generatedAt time.Time) *Alert {
	affected := a.AffectedCryptos
	if affected == nil {
		affected = []string{}
	}

	return &Alert{
		Title:           item.Title,
		Content:         item.Content,
		URL:             item.URL,
		Source:          item.Source,
		PublishedDate:   item.PublishedAt.Format(time.RFC3339),
		Author:          item.Author,
		HashID:          item.HashID,
		Importance:      a.Importance,
		Sentiment:       string(a.Sentiment),
		Summary:         a.Summary,
		TradingSignal:   a.TradingSignal,
		AffectedCryptos: affected,
		TimeHorizon:     string(a.TimeHorizon),
		Confidence:      a.Confidence,
		CryptoMentions:  s.extractor.Extract(item.Text()),
		Timestamp:       generatedAt.Format(time.RFC3339Nano),
	}
}

func (s *Store) save(alert *Alert, generatedAt time.Time) (string, error) {
	data, err := json.MarshalIndent(alert, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode alert: %w", err)
	}

	hashPrefix := alert.HashID
	if len(hashPrefix) > 8 {
		hashPrefix = hashPrefix[:8]
	}
	base := filePrefix + generatedAt.Format(fileTimeFormat) + "_" + hashPrefix

	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; ; attempt++ {
		name := base + fileExt
		if attempt > 0 {
			name = fmt.Sprintf("%s_%d%s", base, attempt, fileExt)
		}
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create %s: %w", name, err)
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("failed to close %s: %w", name, err)
		}

		return path, nil
	}
}

// List returns alerts generated within window, newest first. A non-positive
// limit returns all of them.
func (s *Store) List(window time.Duration, limit int) ([]Alert, error) {
	records, _, err := s.scan(window)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].at.After(records[j].at)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	alerts := make([]Alert, 0, len(records))
	for _, r := range records {
		alerts = append(alerts, r.alert)
	}

	return alerts, nil
}

// Stats aggregates alerts generated within window. Unreadable or corrupt
// files are skipped and counted.
func (s *Store) Stats(window time.Duration) (*Stats, error) {
	records, skipped, err := s.scan(window)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		SentimentBreakdown: map[string]int{
			string(analysis.SentimentBullish): 0,
			string(analysis.SentimentBearish): 0,
			string(analysis.SentimentNeutral): 0,
		},
		TopSources:  []Count{},
		TopCryptos:  []Count{},
		WindowHours: window.Hours(),
		Skipped:     skipped,
	}

	if len(records) == 0 {
		return stats, nil
	}

	sources := make(map[string]int)
	cryptos := make(map[string]int)
	total := 0

	for _, r := range records {
		alert := r.alert
		total += alert.Importance
		if alert.Importance > stats.HighestImportance {
			stats.HighestImportance = alert.Importance
		}
		stats.SentimentBreakdown[string(analysis.ParseSentiment(alert.Sentiment))]++
		sources[alert.Source]++
		for _, symbol := range alert.CryptoMentions {
			cryptos[symbol]++
		}
	}

	stats.TotalAlerts = len(records)
	stats.AvgImportance = math.Round(float64(total)/float64(len(records))*100) / 100
	stats.TopSources = topCounts(sources, topN)
	stats.TopCryptos = topCounts(cryptos, topN)

	return stats, nil
}

type record struct {
	alert Alert
	at    time.Time
}

func (s *Store) scan(window time.Duration) ([]record, int, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, filePrefix+"*"+fileExt))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}

	cutoff := s.now().Add(-window)
	records := make([]record, 0, len(paths))
	skipped := 0

	for _, path := range paths {
		alert, err := readAlert(path)
		if err != nil {
			slog.Debug("Skipping unreadable alert", "path", path, "error", err)
			skipped++
			continue
		}

		generatedAt, err := alert.GeneratedAt()
		if err != nil {
			slog.Debug("Skipping alert with invalid timestamp", "path", path, "error", err)
			skipped++
			continue
		}

		if window > 0 && generatedAt.Before(cutoff) {
			continue
		}

		records = append(records, record{alert: *alert, at: generatedAt})
	}

	return records, skipped, nil
}

func readAlert(path string) (*Alert, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var alert Alert
	if err := json.Unmarshal(data, &alert); err != nil {
		return nil, err
	}

	return &alert, nil
}

func topCounts(counts map[string]int, n int) []Count {
	result := make([]Count, 0, len(counts))
	for name, count := range counts {
		if strings.TrimSpace(name) == "" {
			continue
		}
		result = append(result, Count{Name: name, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})

	if len(result) > n {
		result = result[:n]
	}

	return result
}
