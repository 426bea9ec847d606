package alerts

import (
	"fmt"
	"strings"
)

// FormatMessage renders an alert as plain text for logs and chat webhooks.
func FormatMessage(a *Alert) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] importance %d/10 | %s\n", strings.ToUpper(a.Sentiment), a.Importance, a.Source)
	fmt.Fprintf(&b, "%s\n", a.Title)

	if a.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", a.Summary)
	}
	if a.TradingSignal != "" {
		fmt.Fprintf(&b, "Signal: %s\n", a.TradingSignal)
	}

	assets := a.AffectedCryptos
	if len(assets) == 0 {
		assets = a.CryptoMentions
	}
	if len(assets) > 0 {
		fmt.Fprintf(&b, "Assets: %s\n", strings.Join(assets, ", "))
	}

	fmt.Fprintf(&b, "Horizon: %s | Confidence: %d/10\n", a.TimeHorizon, a.Confidence)

	if a.URL != "" {
		fmt.Fprintf(&b, "%s\n", a.URL)
	}

	return strings.TrimRight(b.String(), "\n")
}
