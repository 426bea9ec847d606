package analysis

import (
	"errors"
	"strings"
)

var (
	ErrNoJSONObject       = errors.New("analysis: no JSON object in response")
	ErrMissingField       = errors.New("analysis: required field missing")
	ErrInvalidField       = errors.New("analysis: invalid field value")
	ErrProviderStatus     = errors.New("analysis: provider returned error status")
	ErrEmptyResponse      = errors.New("analysis: empty provider response")
	ErrLexiconUnavailable = errors.New("analysis: sentiment lexicon unavailable")
)

type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// ParseSentiment maps anything unrecognised to neutral.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentBullish:
		return SentimentBullish
	case SentimentBearish:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

type TimeHorizon string

const (
	HorizonImmediate TimeHorizon = "immediate"
	HorizonShort     TimeHorizon = "short"
	HorizonLong      TimeHorizon = "long"
)

// ParseTimeHorizon maps anything unrecognised to short.
func ParseTimeHorizon(s string) TimeHorizon {
	switch TimeHorizon(strings.ToLower(strings.TrimSpace(s))) {
	case HorizonImmediate:
		return HorizonImmediate
	case HorizonLong:
		return HorizonLong
	default:
		return HorizonShort
	}
}

const (
	MinScore = 1
	MaxScore = 10
)

type Assessment struct {
	Importance      int         `json:"importance"`
	Sentiment       Sentiment   `json:"sentiment"`
	Summary         string      `json:"summary"`
	TradingSignal   string      `json:"trading_signal"`
	AffectedCryptos []string    `json:"affected_cryptos"`
	TimeHorizon     TimeHorizon `json:"time_horizon"`
	Confidence      int         `json:"confidence"`
}

// Normalize returns a copy with scores clamped to [1,10] and enums coerced
// to known values.
func (a Assessment) Normalize() Assessment {
	a.Importance = Clamp(a.Importance)
	a.Confidence = Clamp(a.Confidence)
	a.Sentiment = ParseSentiment(string(a.Sentiment))
	a.TimeHorizon = ParseTimeHorizon(string(a.TimeHorizon))
	if a.AffectedCryptos == nil {
		a.AffectedCryptos = []string{}
	}
	return a
}

func Clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// Minimal is returned when no other analysis could be produced.
func Minimal() Assessment {
	return Assessment{
		Importance:      5,
		Sentiment:       SentimentNeutral,
		Summary:         "Analysis unavailable",
		TradingSignal:   "Manual review required",
		AffectedCryptos: []string{},
		TimeHorizon:     HorizonShort,
		Confidence:      1,
	}
}
