package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lysyi3m/crypto-alerts/app/news"
)

const (
	bullishThreshold   = 0.1
	bearishThreshold   = -0.1
	baseImportance     = 3
	fallbackConfidence = 6
	maxSummaryLength   = 100
)

type keywordWeight struct {
	keyword string
	weight  int
}

// Fallback produces an assessment offline from a sentiment lexicon and a
// keyword to importance table. The result depends only on the input text.
type Fallback struct {
	lexicon *Lexicon
	weights []keywordWeight
}

func NewFallback(lexicon *Lexicon, importance map[string]int) *Fallback {
	weights := make([]keywordWeight, 0, len(importance))
	for keyword, weight := range importance {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		weights = append(weights, keywordWeight{keyword: keyword, weight: weight})
	}
	sort.Slice(weights, func(i, j int) bool {
		return weights[i].keyword < weights[j].keyword
	})

	return &Fallback{
		lexicon: lexicon,
		weights: weights,
	}
}

func (f *Fallback) Analyze(title, content string) (Assessment, error) {
	text := title + " " + content

	compound, err := f.lexicon.Compound(text)
	if err != nil {
		return Assessment{}, err
	}

	sentiment := SentimentNeutral
	switch {
	case compound >= bullishThreshold:
		sentiment = SentimentBullish
	case compound <= bearishThreshold:
		sentiment = SentimentBearish
	}

	summary := title
	if len([]rune(summary)) > maxSummaryLength {
		summary = news.Truncate(summary, maxSummaryLength) + "..."
	}

	a := Assessment{
		Importance:      f.Importance(text),
		Sentiment:       sentiment,
		Summary:         summary,
		TradingSignal:   fmt.Sprintf("Monitor %s sentiment", sentiment),
		AffectedCryptos: []string{},
		TimeHorizon:     HorizonShort,
		Confidence:      fallbackConfidence,
	}

	return a.Normalize(), nil
}

// Importance is the highest weight among matched keywords, or 3 when none
// match.
func (f *Fallback) Importance(text string) int {
	lower := strings.ToLower(text)

	importance := 0
	for _, kw := range f.weights {
		if kw.weight > importance && strings.Contains(lower, kw.keyword) {
			importance = kw.weight
		}
	}

	if importance == 0 {
		return baseImportance
	}
	return Clamp(importance)
}
