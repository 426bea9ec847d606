package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/crypto-alerts/app/alerts"
	"github.com/lysyi3m/crypto-alerts/app/analysis"
	"github.com/lysyi3m/crypto-alerts/app/news"
)

// Analyzer is satisfied by *analysis.Engine.
type Analyzer interface {
	Analyze(ctx context.Context, title, content, source string) analysis.Assessment
	Provider() string
}

// AlertStore is satisfied by *alerts.Store.
type AlertStore interface {
	Process(item news.Item, a analysis.Assessment) (*alerts.Alert, error)
	Stats(window time.Duration) (*alerts.Stats, error)
	Threshold() int
}

// Notifier is satisfied by *alerts.Notifier.
type Notifier interface {
	Notify(ctx context.Context, alert *alerts.Alert)
}

// MonitorInterface is what the HTTP layer needs to report on the running
// monitor.
type MonitorInterface interface {
	Run(ctx context.Context) error
	State() State
	LastCycle() *Cycle
	Provider() string
}

var (
	_ Analyzer   = (*analysis.Engine)(nil)
	_ AlertStore = (*alerts.Store)(nil)
	_ Notifier   = (*alerts.Notifier)(nil)
)
