package analysis

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	content := strings.Repeat("b", 1500)

	prompt := BuildPrompt("Bitcoin news", content, "coindesk")

	if !strings.Contains(prompt, "Title: Bitcoin news") {
		t.Error("Expected prompt to contain the title")
	}
	if !strings.Contains(prompt, "Source: coindesk") {
		t.Error("Expected prompt to contain the source")
	}
	if strings.Contains(prompt, strings.Repeat("b", 1001)) {
		t.Error("Expected content to be cut to 1000 characters")
	}
	if !strings.Contains(prompt, strings.Repeat("b", 1000)) {
		t.Error("Expected first 1000 characters of content")
	}

	for _, field := range []string{"importance", "sentiment", "summary", "trading_signal", "affected_cryptos", "time_horizon", "confidence"} {
		if !strings.Contains(prompt, `"`+field+`"`) {
			t.Errorf("Expected prompt to name field %s", field)
		}
	}
}
