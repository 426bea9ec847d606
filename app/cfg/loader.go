package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Monitoring configuration
	AlertThreshold int    `long:"alert-threshold" env:"ALERT_THRESHOLD" default:"7" description:"Minimum importance (1-10) that produces an alert"`
	CheckInterval  int    `long:"check-interval" env:"CHECK_INTERVAL_MINUTES" default:"5" description:"Minutes between monitoring cycles"`
	MaxNewsAge     int    `long:"max-news-age" env:"MAX_NEWS_AGE_HOURS" default:"24" description:"Ignore news older than this many hours"`
	EnableRSS      string `long:"enable-rss" env:"ENABLE_RSS_MONITORING" default:"true" description:"Monitor RSS feeds (true/false)"`
	EnableNewsAPI  string `long:"enable-news-api" env:"ENABLE_NEWS_API" default:"true" description:"Query the news search API (true/false)"`
	EnableSocial   string `long:"enable-social" env:"ENABLE_SOCIAL_MONITORING" default:"true" description:"Monitor subreddit feeds (true/false)"`

	// Credentials
	OpenRouterAPIKey string `long:"openrouter-api-key" env:"OPENROUTER_API_KEY" description:"OpenRouter API key (preferred reasoning provider)"`
	DeepSeekAPIKey   string `long:"deepseek-api-key" env:"DEEPSEEK_API_KEY" description:"DeepSeek API key (used when no OpenRouter key is set)"`
	NewsAPIKey       string `long:"news-api-key" env:"NEWS_API_KEY" description:"NewsAPI key (news search is skipped without it)"`

	// Storage and delivery
	SourcesFile string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML catalog of feeds, keywords and tables (optional)"`
	AlertsDir   string `long:"alerts-dir" env:"ALERTS_DIR" default:"./alerts" description:"Directory for alert records"`
	WebhookURL  string `long:"webhook-url" env:"WEBHOOK_URL" description:"Webhook that receives every alert (optional)"`
	RedisURL    string `long:"redis-url" env:"REDIS_URL" description:"Redis URL for the alert queue (optional)"`
	RedisQueue  string `long:"redis-queue" env:"REDIS_QUEUE" default:"crypto:alerts" description:"Redis list that receives alerts"`

	// HTTP server
	Port       string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	DisableAPI bool   `long:"disable-api" env:"DISABLE_API" description:"Do not start the HTTP server"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"CryptoAlerts/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	LogLevel  string `long:"log-level" env:"LOG_LEVEL" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`
	LogFormat string `long:"log-format" env:"LOG_FORMAT" default:"text" choice:"text" choice:"json" description:"Log output format"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return parse(nil)
}

// parse reads flags from args (os.Args when nil) and the environment.
func parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg, err := build(raw)
	if err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	globalCfg = cfg

	return cfg, nil
}

func build(raw rawCfg) (*Cfg, error) {
	if raw.AlertThreshold < 1 || raw.AlertThreshold > 10 {
		return nil, fmt.Errorf("alert threshold must be between 1 and 10, got %d", raw.AlertThreshold)
	}
	if raw.CheckInterval < 1 {
		return nil, fmt.Errorf("check interval must be at least 1 minute, got %d", raw.CheckInterval)
	}
	if raw.MaxNewsAge < 1 {
		return nil, fmt.Errorf("max news age must be at least 1 hour, got %d", raw.MaxNewsAge)
	}

	enableRSS, err := parseSwitch("ENABLE_RSS_MONITORING", raw.EnableRSS)
	if err != nil {
		return nil, err
	}
	enableNewsAPI, err := parseSwitch("ENABLE_NEWS_API", raw.EnableNewsAPI)
	if err != nil {
		return nil, err
	}
	enableSocial, err := parseSwitch("ENABLE_SOCIAL_MONITORING", raw.EnableSocial)
	if err != nil {
		return nil, err
	}

	return &Cfg{
		AlertThreshold:   raw.AlertThreshold,
		CheckInterval:    time.Duration(raw.CheckInterval) * time.Minute,
		MaxNewsAge:       time.Duration(raw.MaxNewsAge) * time.Hour,
		EnableRSS:        enableRSS,
		EnableNewsAPI:    enableNewsAPI,
		EnableSocial:     enableSocial,
		OpenRouterAPIKey: strings.TrimSpace(raw.OpenRouterAPIKey),
		DeepSeekAPIKey:   strings.TrimSpace(raw.DeepSeekAPIKey),
		NewsAPIKey:       strings.TrimSpace(raw.NewsAPIKey),
		SourcesFile:      raw.SourcesFile,
		AlertsDir:        raw.AlertsDir,
		WebhookURL:       raw.WebhookURL,
		RedisURL:         raw.RedisURL,
		RedisQueue:       raw.RedisQueue,
		Port:             raw.Port,
		DisableAPI:       raw.DisableAPI,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		LogLevel:         raw.LogLevel,
		LogFormat:        raw.LogFormat,
		Version:          GetVersion(),
	}, nil
}

func parseSwitch(name, value string) (bool, error) {
	enabled, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid value %q for %s: %w", value, name, err)
	}
	return enabled, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// SlogLevel maps the configured level to slog. Debug always wins.
func (c *Cfg) SlogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
