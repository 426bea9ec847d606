package api

import (
	"time"

	"github.com/lysyi3m/crypto-alerts/app/alerts"
	"github.com/lysyi3m/crypto-alerts/app/tasks"
)

// AlertReader is satisfied by *alerts.Store.
type AlertReader interface {
	List(window time.Duration, limit int) ([]alerts.Alert, error)
	Stats(window time.Duration) (*alerts.Stats, error)
	Threshold() int
}

var _ AlertReader = (*alerts.Store)(nil)

type Handler struct {
	monitor tasks.MonitorInterface
	store   AlertReader
	sources []string
	sinks   []string
	version string
	started time.Time
}
