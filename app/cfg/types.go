package cfg

import (
	"time"
)

type Cfg struct {
	// Monitoring configuration
	AlertThreshold int
	CheckInterval  time.Duration
	MaxNewsAge     time.Duration
	EnableRSS      bool
	EnableNewsAPI  bool
	EnableSocial   bool

	// Credentials
	OpenRouterAPIKey string
	DeepSeekAPIKey   string
	NewsAPIKey       string

	// Storage and delivery
	SourcesFile string
	AlertsDir   string
	WebhookURL  string
	RedisURL    string
	RedisQueue  string

	// HTTP server
	Port       string
	DisableAPI bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	LogLevel  string
	LogFormat string
	Version   string
}

// StatusMap reports which optional integrations are configured. Secrets are
// never included.
func (c *Cfg) StatusMap() map[string]string {
	return map[string]string{
		"llm_api":  configured(c.OpenRouterAPIKey != "" || c.DeepSeekAPIKey != ""),
		"news_api": configured(c.NewsAPIKey != ""),
		"webhook":  configured(c.WebhookURL != ""),
		"redis":    configured(c.RedisURL != ""),
	}
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
