package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/crypto-alerts/app/news"
)

type Credentials struct {
	OpenRouterAPIKey string
	DeepSeekAPIKey   string
}

// SelectProvider picks the reasoning service from the configured
// credentials. It returns nil when only the offline fallback is available.
func SelectProvider(creds Credentials) Completer {
	switch {
	case creds.OpenRouterAPIKey != "":
		return NewOpenAIProvider(OpenRouterConfig(creds.OpenRouterAPIKey))
	case creds.DeepSeekAPIKey != "":
		return NewOpenAIProvider(DeepSeekConfig(creds.DeepSeekAPIKey))
	default:
		return nil
	}
}

// Engine turns a news item into an Assessment. The provider is chosen once
// at construction; Analyze always returns a valid Assessment.
type Engine struct {
	provider Completer
	fallback *Fallback
	timeout  time.Duration
}

type EngineOption func(*Engine)

// WithTimeout bounds a single provider call.
func WithTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func NewEngine(provider Completer, fallback *Fallback, opts ...EngineOption) *Engine {
	e := &Engine{
		provider: provider,
		fallback: fallback,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Provider() string {
	if e.provider == nil {
		return ProviderFallback
	}
	return e.provider.Name()
}

func (e *Engine) Analyze(ctx context.Context, title, content, source string) (result Assessment) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Fallback analysis panicked", "source", source, "title", news.Prefix(title), "panic", r)
			result = Minimal()
		}
	}()

	if e.provider != nil {
		a, err := e.analyzeRemote(ctx, title, content, source)
		if err == nil {
			return a
		}
		slog.Warn("Provider analysis failed, using fallback",
			"provider", e.provider.Name(),
			"source", source,
			"title", news.Prefix(title),
			"error", err)
	}

	if e.fallback == nil {
		slog.Error("Fallback analysis unavailable", "source", source, "title", news.Prefix(title))
		return Minimal()
	}

	a, err := e.fallback.Analyze(title, content)
	if err != nil {
		slog.Error("Fallback analysis failed", "source", source, "title", news.Prefix(title), "error", err)
		return Minimal()
	}

	return a
}

func (e *Engine) analyzeRemote(ctx context.Context, title, content, source string) (a Assessment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text, err := e.provider.Complete(timeoutCtx, BuildPrompt(title, content, source))
	if err != nil {
		return Assessment{}, err
	}

	payload, err := ExtractJSON(text)
	if err != nil {
		return Assessment{}, err
	}

	return ParseAssessment(payload)
}
