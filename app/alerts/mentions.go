package alerts

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type AssetPattern struct {
	Symbol   string
	Patterns []string
}

type compiledAsset struct {
	symbol string
	re     *regexp.Regexp
}

var cashtagPattern = regexp.MustCompile(`\$([A-Za-z]{2,10})\b`)

// MentionExtractor finds asset mentions by symbol or name, plus $TICKER
// cashtags. Results are uppercase symbols in order of first appearance.
type MentionExtractor struct {
	assets []compiledAsset
}

func NewMentionExtractor(assets []AssetPattern) (*MentionExtractor, error) {
	compiled := make([]compiledAsset, 0, len(assets))

	for _, asset := range assets {
		symbol := strings.ToUpper(strings.TrimSpace(asset.Symbol))
		if symbol == "" || len(asset.Patterns) == 0 {
			continue
		}

		alternatives := make([]string, 0, len(asset.Patterns))
		for _, p := range asset.Patterns {
			if p = strings.TrimSpace(p); p != "" {
				alternatives = append(alternatives, regexp.QuoteMeta(p))
			}
		}
		if len(alternatives) == 0 {
			continue
		}

		re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(alternatives, "|") + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for %s: %w", symbol, err)
		}

		compiled = append(compiled, compiledAsset{symbol: symbol, re: re})
	}

	return &MentionExtractor{assets: compiled}, nil
}

type mention struct {
	pos    int
	symbol string
}

func (m *MentionExtractor) Extract(text string) []string {
	var found []mention

	for _, asset := range m.assets {
		if loc := asset.re.FindStringIndex(text); loc != nil {
			found = append(found, mention{pos: loc[0], symbol: asset.symbol})
		}
	}

	for _, loc := range cashtagPattern.FindAllStringSubmatchIndex(text, -1) {
		found = append(found, mention{pos: loc[0], symbol: strings.ToUpper(text[loc[2]:loc[3]])})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].pos < found[j].pos
	})

	mentions := []string{}
	seen := make(map[string]bool, len(found))
	for _, f := range found {
		if seen[f.symbol] {
			continue
		}
		seen[f.symbol] = true
		mentions = append(mentions, f.symbol)
	}

	return mentions
}
