package analysis

import (
	"math"
	"sync"

	"github.com/jonreiter/govader"
)

// The analyzer loads its embedded word list on construction, so one instance
// is shared by every default Lexicon.
var defaultAnalyzer = sync.OnceValue(govader.NewSentimentIntensityAnalyzer)

// Lexicon scores text polarity with VADER. The compound score is in [-1, 1].
type Lexicon struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewLexicon(analyzer *govader.SentimentIntensityAnalyzer) *Lexicon {
	return &Lexicon{analyzer: analyzer}
}

func DefaultLexicon() *Lexicon {
	return NewLexicon(defaultAnalyzer())
}

func (l *Lexicon) Compound(text string) (float64, error) {
	if l == nil || l.analyzer == nil {
		return 0, ErrLexiconUnavailable
	}

	compound := l.analyzer.PolarityScores(text).Compound
	if math.IsNaN(compound) {
		return 0, nil
	}

	return math.Max(-1, math.Min(1, compound)), nil
}
