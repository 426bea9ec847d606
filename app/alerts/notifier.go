package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sink delivers a stored alert somewhere else.
type Sink interface {
	Name() string
	Send(ctx context.Context, alert *Alert) error
}

// Notifier fans an alert out to every sink. Sink errors are logged and do
// not affect the others.
type Notifier struct {
	sinks []Sink
}

func NewNotifier(sinks ...Sink) *Notifier {
	return &Notifier{sinks: sinks}
}

func (n *Notifier) Sinks() []string {
	names := make([]string, 0, len(n.sinks))
	for _, sink := range n.sinks {
		names = append(names, sink.Name())
	}
	return names
}

func (n *Notifier) Notify(ctx context.Context, alert *Alert) {
	for _, sink := range n.sinks {
		if err := sink.Send(ctx, alert); err != nil {
			slog.Warn("Alert notification failed", "sink", sink.Name(), "hash", alert.HashID, "error", err)
		}
	}
}

// Close releases every sink that holds a connection.
func (n *Notifier) Close() error {
	var errs []error
	for _, sink := range n.sinks {
		closer, ok := sink.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}

type LogSink struct{}

func (LogSink) Name() string {
	return "log"
}

func (LogSink) Send(ctx context.Context, alert *Alert) error {
	slog.Warn("Trading alert",
		"importance", alert.Importance,
		"sentiment", alert.Sentiment,
		"source", alert.Source,
		"title", alert.Title,
		"mentions", alert.CryptoMentions,
		"url", alert.URL)
	slog.Debug(FormatMessage(alert))
	return nil
}

// WebhookSink posts alerts as JSON to a chat style webhook.
type WebhookSink struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
}

func NewWebhookSink(url string, httpClient *http.Client) *WebhookSink {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &WebhookSink{
		url:        url,
		httpClient: httpClient,
		timeout:    10 * time.Second,
	}
}

func (w *WebhookSink) Name() string {
	return "webhook"
}

type webhookPayload struct {
	Content string `json:"content"`
	Alert   *Alert `json:"alert"`
}

func (w *WebhookSink) Send(ctx context.Context, alert *Alert) error {
	body, err := json.Marshal(webhookPayload{Content: FormatMessage(alert), Alert: alert})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}

	return nil
}

type listPusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Close() error
}

// RedisSink pushes alert JSON onto a Redis list for downstream consumers.
type RedisSink struct {
	client listPusher
	key    string
}

func NewRedisSink(client listPusher, key string) *RedisSink {
	return &RedisSink{client: client, key: key}
}

func (r *RedisSink) Name() string {
	return "redis"
}

func (r *RedisSink) Send(ctx context.Context, alert *Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	if err := r.client.LPush(ctx, r.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push alert to %s: %w", r.key, err)
	}

	return nil
}

func (r *RedisSink) Close() error {
	return r.client.Close()
}

// ConnectRedis parses a redis:// URL and verifies the server is reachable.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
