package analysis

import (
	"fmt"

	"github.com/lysyi3m/crypto-alerts/app/news"
)

const maxPromptContent = 1000

const systemPrompt = "You are an experienced cryptocurrency market analyst. You answer with a single JSON object and nothing else."

const promptTemplate = `Assess the trading relevance of this cryptocurrency news item.

Title: %s
Source: %s
Content: %s

Return a JSON object with exactly these fields:
- "importance": integer 1-10, expected market impact (10 = market moving)
- "sentiment": one of "bullish", "bearish", "neutral"
- "summary": one or two sentences on what happened
- "trading_signal": a short actionable note for traders
- "affected_cryptos": array of ticker symbols, for example ["BTC", "ETH"]
- "time_horizon": one of "immediate", "short", "long"
- "confidence": integer 1-10, how sure you are about this assessment

Consider regulatory action, institutional flows, security incidents, protocol changes and macro events.
Respond ONLY with valid JSON, no additional text.`

// BuildPrompt renders the analysis request. Content is cut to its first
// 1000 characters.
func BuildPrompt(title, content, source string) string {
	return fmt.Sprintf(promptTemplate, title, source, news.Truncate(content, maxPromptContent))
}
