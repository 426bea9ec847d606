package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/crypto-alerts/app/news"
	"github.com/lysyi3m/crypto-alerts/app/sources"
)

var _ MonitorInterface = (*Monitor)(nil)

const statsWindow = 24 * time.Hour

type Options struct {
	Interval   time.Duration
	ItemDelay  time.Duration
	SleepSlice time.Duration
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = 5 * time.Minute
	}
	if o.ItemDelay < 0 {
		o.ItemDelay = 0
	}
	if o.SleepSlice <= 0 {
		o.SleepSlice = 10 * time.Second
	}
	return o
}

// Monitor runs fetch and analysis cycles on a fixed interval until its
// context is cancelled. Items inside a cycle are handled one at a time.
type Monitor struct {
	sources  []sources.Source
	analyzer Analyzer
	store    AlertStore
	notifier Notifier
	opts     Options

	mu     sync.RWMutex
	state  State
	last   *Cycle
	cycles int
}

func NewMonitor(srcs []sources.Source, analyzer Analyzer, store AlertStore, notifier Notifier, opts Options) *Monitor {
	return &Monitor{
		sources:  srcs,
		analyzer: analyzer,
		store:    store,
		notifier: notifier,
		opts:     opts.withDefaults(),
		state:    StateIdle,
	}
}

func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Monitor) setState(state State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
	slog.Debug("Monitor state changed", "state", string(state))
}

func (m *Monitor) LastCycle() *Cycle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return nil
	}
	c := *m.last
	return &c
}

func (m *Monitor) Provider() string {
	return m.analyzer.Provider()
}

// Run blocks until ctx is cancelled. Cancellation is observed between
// items, between cycles and between sleep slices; requests already in
// flight are allowed to finish.
func (m *Monitor) Run(ctx context.Context) error {
	m.setState(StateInitializing)

	if len(m.sources) == 0 {
		slog.Warn("No sources enabled, cycles will be empty")
	}
	for _, src := range m.sources {
		slog.Info("Source ready", "source", src.Name())
	}
	slog.Info("Analyzer ready", "provider", m.analyzer.Provider())
	slog.Info("Alert store ready", "threshold", m.store.Threshold())
	slog.Info("Monitor started", "sources", len(m.sources), "interval", m.opts.Interval.String())

	for ctx.Err() == nil {
		m.setState(StateRunning)
		started := time.Now()

		m.safeCycle(ctx)

		if ctx.Err() != nil {
			break
		}

		m.setState(StateSleeping)
		remaining := m.opts.Interval - time.Since(started)
		if !m.sleep(ctx, remaining) {
			break
		}
	}

	m.shutdown()

	return nil
}

func (m *Monitor) sleep(ctx context.Context, remaining time.Duration) bool {
	for remaining > 0 {
		slice := min(m.opts.SleepSlice, remaining)

		timer := time.NewTimer(slice)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}

		remaining -= slice
	}
	return ctx.Err() == nil
}

func (m *Monitor) shutdown() {
	m.setState(StateShuttingDown)
	slog.Info("Monitor shutting down")

	for _, src := range m.sources {
		if err := src.Close(); err != nil {
			slog.Warn("Failed to close source", "source", src.Name(), "error", err)
		}
	}

	m.setState(StateStopped)
	slog.Info("Monitor stopped")
}

func (m *Monitor) safeCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Cycle failed", "panic", r)
		}
	}()

	m.RunCycle(ctx)
}

// RunCycle fetches from every source and processes the merged items in
// order. A failing item is logged and skipped.
func (m *Monitor) RunCycle(ctx context.Context) *Cycle {
	m.mu.Lock()
	m.cycles++
	cycle := NewCycle(m.cycles)
	m.mu.Unlock()

	// Requests already started keep running after a shutdown signal.
	workCtx := context.WithoutCancel(ctx)

	result := sources.FetchAll(workCtx, m.sources)
	cycle.Fetched = len(result.Items)
	cycle.Sources = result.Counts
	cycle.FailedFeeds = result.Failed

	slog.Info("Sources fetched", "cycle", cycle.ID, "items", len(result.Items), "failed_sources", len(result.Failed))

	for i, item := range result.Items {
		if i > 0 && m.opts.ItemDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(m.opts.ItemDelay):
			}
		}

		if ctx.Err() != nil {
			cycle.Interrupted = true
			slog.Info("Shutdown requested, stopping cycle", "cycle", cycle.ID, "remaining", len(result.Items)-i)
			break
		}

		alerted, err := m.processItem(workCtx, item)
		if err != nil {
			cycle.Failed++
			slog.Error("Item processing failed",
				"source", item.Source,
				"title", news.Prefix(item.Title),
				"error", err)
			continue
		}

		cycle.Analyzed++
		if alerted {
			cycle.Alerts++
		}
	}

	cycle.Finish()

	m.mu.Lock()
	m.last = cycle
	m.mu.Unlock()

	slog.Info("Cycle completed",
		"cycle", cycle.ID,
		"duration", cycle.Duration,
		"fetched", cycle.Fetched,
		"analyzed", cycle.Analyzed,
		"alerts", cycle.Alerts,
		"failed", cycle.Failed)

	m.logStats()

	return cycle
}

func (m *Monitor) processItem(ctx context.Context, item news.Item) (alerted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	assessment := m.analyzer.Analyze(ctx, item.Title, item.Content, item.Source)

	alert, err := m.store.Process(item, assessment)
	if err != nil {
		return false, err
	}

	slog.Debug("Item analyzed",
		"source", item.Source,
		"title", news.Prefix(item.Title),
		"importance", assessment.Importance,
		"sentiment", string(assessment.Sentiment),
		"alert", alert != nil)

	if alert == nil {
		return false, nil
	}

	if m.notifier != nil {
		m.notifier.Notify(ctx, alert)
	}

	return true, nil
}

func (m *Monitor) logStats() {
	stats, err := m.store.Stats(statsWindow)
	if err != nil {
		slog.Warn("Failed to compute alert stats", "error", err)
		return
	}

	slog.Info("Alert stats",
		"window", statsWindow.String(),
		"total", stats.TotalAlerts,
		"avg_importance", stats.AvgImportance,
		"bullish", stats.SentimentBreakdown["bullish"],
		"bearish", stats.SentimentBreakdown["bearish"],
		"neutral", stats.SentimentBreakdown["neutral"])
}
