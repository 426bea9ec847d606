package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderDeepSeek   = "deepseek"
	ProviderFallback   = "fallback"
)

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 500
	defaultTimeout     = 60 * time.Second
)

// Completer sends one prompt to a reasoning service and returns its raw
// text answer.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

type ProviderConfig struct {
	Name        string
	BaseURL     string
	Model       string
	APIKey      string
	Headers     map[string]string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
}

func OpenRouterConfig(apiKey string) ProviderConfig {
	return ProviderConfig{
		Name:    ProviderOpenRouter,
		BaseURL: "https://openrouter.ai/api/v1/",
		Model:   "qwen/qwen-2.5-7b-instruct:free",
		APIKey:  apiKey,
		Headers: map[string]string{
			"HTTP-Referer": "https://github.com/lysyi3m/crypto-alerts",
			"X-Title":      "Crypto Trading Alert System",
		},
	}
}

func DeepSeekConfig(apiKey string) ProviderConfig {
	return ProviderConfig{
		Name:    ProviderDeepSeek,
		BaseURL: "https://api.deepseek.com/v1/",
		Model:   "deepseek-chat",
		APIKey:  apiKey,
	}
}

var _ Completer = (*OpenAIProvider)(nil)

// OpenAIProvider talks to any OpenAI compatible chat completions API.
type OpenAIProvider struct {
	name        string
	client      *openai.Client
	model       openai.ChatModel
	temperature float64
	maxTokens   int64
}

func NewOpenAIProvider(cfg ProviderConfig) *OpenAIProvider {
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	for key, value := range cfg.Headers {
		opts = append(opts, option.WithHeader(key, value))
	}

	client := openai.NewClient(opts...)

	return &OpenAIProvider{
		name:        cfg.Name,
		client:      &client,
		model:       openai.ChatModel(cfg.Model),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(p.temperature),
		MaxTokens:   openai.Int(p.maxTokens),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: %s %d", ErrProviderStatus, p.name, apiErr.StatusCode)
		}
		return "", fmt.Errorf("%s request failed: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}

	return content, nil
}
