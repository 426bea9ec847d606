package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lysyi3m/crypto-alerts/app/alerts"
	"github.com/lysyi3m/crypto-alerts/app/analysis"
	"github.com/lysyi3m/crypto-alerts/app/api"
	"github.com/lysyi3m/crypto-alerts/app/catalog"
	"github.com/lysyi3m/crypto-alerts/app/cfg"
	"github.com/lysyi3m/crypto-alerts/app/sources"
	"github.com/lysyi3m/crypto-alerts/app/tasks"
)

func main() {
	// A missing .env file is fine, the environment may already be populated
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogger(appCfg)

	slog.Info("Starting Crypto Alerts", "version", appCfg.Version)
	for name, status := range appCfg.StatusMap() {
		slog.Info("Integration status", "integration", name, "status", status)
	}

	cat, err := catalog.Load(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load source catalog", "path", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	srcs := sources.Build(cat, sources.Selection{
		RSS:        appCfg.EnableRSS,
		NewsAPI:    appCfg.EnableNewsAPI,
		Social:     appCfg.EnableSocial,
		NewsAPIKey: appCfg.NewsAPIKey,
	}, sources.Options{
		HTTPClient: httpClient,
		UserAgent:  appCfg.UserAgent,
		MaxAge:     appCfg.MaxNewsAge,
	})

	engine := analysis.NewEngine(
		analysis.SelectProvider(analysis.Credentials{
			OpenRouterAPIKey: appCfg.OpenRouterAPIKey,
			DeepSeekAPIKey:   appCfg.DeepSeekAPIKey,
		}),
		analysis.NewFallback(analysis.DefaultLexicon(), cat.Importance),
	)

	assets := make([]alerts.AssetPattern, 0, len(cat.Assets))
	for _, asset := range cat.Assets {
		assets = append(assets, alerts.AssetPattern{Symbol: asset.Symbol, Patterns: asset.Patterns})
	}
	extractor, err := alerts.NewMentionExtractor(assets)
	if err != nil {
		slog.Error("Invalid asset patterns", "error", err)
		os.Exit(1)
	}

	store, err := alerts.NewStore(appCfg.AlertsDir, appCfg.AlertThreshold, extractor)
	if err != nil {
		slog.Error("Failed to initialize alert store", "dir", appCfg.AlertsDir, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := buildNotifier(ctx, appCfg, httpClient)

	monitor := tasks.NewMonitor(srcs, engine, store, notifier, tasks.Options{
		Interval:  appCfg.CheckInterval,
		ItemDelay: 500 * time.Millisecond,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := monitor.Run(ctx); err != nil {
			slog.Error("Monitor stopped with error", "error", err)
		}
	}()

	var httpServer *http.Server
	serverErrChan := make(chan error, 1)

	if !appCfg.DisableAPI {
		handler := api.NewHandler(monitor, store, sources.Names(srcs), notifier.Sinks(), appCfg.Version)

		httpServer = &http.Server{
			Addr:         ":" + appCfg.Port,
			Handler:      api.NewServer(handler),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		go func() {
			slog.Info("HTTP server starting", "port", appCfg.Port)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrChan <- err
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Crypto Alerts started", "sources", len(srcs), "provider", engine.Provider(), "threshold", appCfg.AlertThreshold)

	select {
	case sig := <-sigChan:
		slog.Info("Shutdown signal received", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	cancel()

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		} else {
			slog.Info("HTTP server stopped")
		}
	}

	wg.Wait()

	if err := notifier.Close(); err != nil {
		slog.Warn("Failed to release notification sinks", "error", err)
	}

	slog.Info("Crypto Alerts shutdown complete")
}

func setupLogger(c *cfg.Cfg) {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}

	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func buildNotifier(ctx context.Context, c *cfg.Cfg, httpClient *http.Client) *alerts.Notifier {
	sinks := []alerts.Sink{alerts.LogSink{}}

	if c.WebhookURL != "" {
		sinks = append(sinks, alerts.NewWebhookSink(c.WebhookURL, httpClient))
	}

	if c.RedisURL != "" {
		client, err := alerts.ConnectRedis(ctx, c.RedisURL)
		if err != nil {
			slog.Warn("Redis unavailable, alert queue disabled", "error", err)
		} else {
			sinks = append(sinks, alerts.NewRedisSink(client, c.RedisQueue))
		}
	}

	return alerts.NewNotifier(sinks...)
}
