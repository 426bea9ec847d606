package cfg

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

// unsetEnv removes name for the duration of the test. go-flags treats a set
// but empty variable as an explicit value.
func unsetEnv(t *testing.T, name string) {
	t.Helper()
	t.Setenv(name, "")
	os.Unsetenv(name)
}

func TestParse_Defaults(t *testing.T) {
	for _, name := range []string{
		"ALERT_THRESHOLD", "CHECK_INTERVAL_MINUTES", "MAX_NEWS_AGE_HOURS",
		"ENABLE_RSS_MONITORING", "ENABLE_NEWS_API", "ENABLE_SOCIAL_MONITORING",
		"OPENROUTER_API_KEY", "DEEPSEEK_API_KEY", "NEWS_API_KEY",
		"WEBHOOK_URL", "REDIS_URL", "TZ", "DEBUG", "LOG_LEVEL",
	} {
		unsetEnv(t, name)
	}

	cfg, err := parse([]string{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.AlertThreshold != 7 {
		t.Errorf("Expected threshold 7, got %d", cfg.AlertThreshold)
	}
	if cfg.CheckInterval != 5*time.Minute {
		t.Errorf("Expected 5m interval, got %v", cfg.CheckInterval)
	}
	if cfg.MaxNewsAge != 24*time.Hour {
		t.Errorf("Expected 24h max age, got %v", cfg.MaxNewsAge)
	}
	if !cfg.EnableRSS || !cfg.EnableNewsAPI || !cfg.EnableSocial {
		t.Errorf("Expected all source groups enabled by default, got %+v", cfg)
	}
	if cfg.RedisQueue != "crypto:alerts" {
		t.Errorf("Expected default redis queue, got %q", cfg.RedisQueue)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("Expected info level, got %v", cfg.SlogLevel())
	}
}

func TestParse_Environment(t *testing.T) {
	t.Setenv("ALERT_THRESHOLD", "8")
	t.Setenv("CHECK_INTERVAL_MINUTES", "10")
	t.Setenv("ENABLE_SOCIAL_MONITORING", "false")
	t.Setenv("OPENROUTER_API_KEY", " or-key ")
	t.Setenv("TZ", "UTC")

	cfg, err := parse([]string{"--debug"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.AlertThreshold != 8 {
		t.Errorf("Expected threshold 8, got %d", cfg.AlertThreshold)
	}
	if cfg.CheckInterval != 10*time.Minute {
		t.Errorf("Expected 10m interval, got %v", cfg.CheckInterval)
	}
	if cfg.EnableSocial {
		t.Error("Expected social monitoring to be disabled")
	}
	if cfg.OpenRouterAPIKey != "or-key" {
		t.Errorf("Expected trimmed key, got %q", cfg.OpenRouterAPIKey)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("Expected debug level with --debug, got %v", cfg.SlogLevel())
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
		want string
	}{
		{"threshold too high", "ALERT_THRESHOLD", "11", "alert threshold"},
		{"threshold too low", "ALERT_THRESHOLD", "0", "alert threshold"},
		{"zero interval", "CHECK_INTERVAL_MINUTES", "0", "check interval"},
		{"zero age", "MAX_NEWS_AGE_HOURS", "0", "max news age"},
		{"bad switch", "ENABLE_NEWS_API", "maybe", "ENABLE_NEWS_API"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)

			_, err := parse([]string{})
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestStatusMap(t *testing.T) {
	cfg := &Cfg{DeepSeekAPIKey: "secret", RedisURL: "redis://localhost:6379/0"}

	status := cfg.StatusMap()

	if status["llm_api"] != "configured" {
		t.Errorf("Expected llm_api configured, got %q", status["llm_api"])
	}
	if status["news_api"] != "not configured" {
		t.Errorf("Expected news_api not configured, got %q", status["news_api"])
	}
	if status["redis"] != "configured" {
		t.Errorf("Expected redis configured, got %q", status["redis"])
	}
	for key, value := range status {
		if strings.Contains(value, "secret") {
			t.Errorf("Status %q leaks a credential", key)
		}
	}
}
