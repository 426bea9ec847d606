package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const defaultConfidence = 5

// ExtractJSON returns the first balanced JSON object embedded in text.
// Braces inside string literals are ignored; a balanced candidate that is
// not valid JSON is skipped in favour of the next one.
func ExtractJSON(text string) (string, error) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end := balancedEnd(text, start); end > start {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
		}

		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}

	return "", ErrNoJSONObject
}

func balancedEnd(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// ParseAssessment decodes and validates a provider payload. importance,
// sentiment and summary are required; every other field is optional and
// repaired when malformed.
func ParseAssessment(payload string) (Assessment, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return Assessment{}, fmt.Errorf("%w: %v", ErrNoJSONObject, err)
	}

	for _, field := range []string{"importance", "sentiment", "summary"} {
		if v, ok := raw[field]; !ok || v == nil {
			return Assessment{}, fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	importance, err := toScore(raw["importance"])
	if err != nil {
		return Assessment{}, fmt.Errorf("%w: importance: %v", ErrInvalidField, err)
	}

	summary, ok := raw["summary"].(string)
	if !ok {
		return Assessment{}, fmt.Errorf("%w: summary is not a string", ErrInvalidField)
	}

	sentiment, _ := raw["sentiment"].(string)
	signal, _ := raw["trading_signal"].(string)
	horizon, _ := raw["time_horizon"].(string)

	confidence, err := toScore(raw["confidence"])
	if err != nil {
		confidence = defaultConfidence
	}

	a := Assessment{
		Importance:      importance,
		Sentiment:       ParseSentiment(sentiment),
		Summary:         strings.TrimSpace(summary),
		TradingSignal:   strings.TrimSpace(signal),
		AffectedCryptos: toSymbols(raw["affected_cryptos"]),
		TimeHorizon:     ParseTimeHorizon(horizon),
		Confidence:      confidence,
	}

	return a.Normalize(), nil
}

// toScore accepts JSON numbers and numeric strings, truncates toward zero
// and clamps to [1,10].
func toScore(v interface{}) (int, error) {
	var f float64
	var err error

	switch n := v.(type) {
	case json.Number:
		f, err = n.Float64()
	case float64:
		f = n
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
	case nil:
		return 0, fmt.Errorf("missing")
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}

	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}

	f = math.Trunc(f)
	f = math.Max(MinScore, math.Min(MaxScore, f))

	return int(f), nil
}

func toSymbols(v interface{}) []string {
	symbols := []string{}
	seen := make(map[string]bool)

	add := func(s string) {
		s = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$")))
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		symbols = append(symbols, s)
	}

	switch list := v.(type) {
	case []interface{}:
		for _, entry := range list {
			if s, ok := entry.(string); ok {
				add(s)
			}
		}
	case string:
		for _, part := range strings.Split(list, ",") {
			add(part)
		}
	}

	return symbols
}
