package tasks

import (
	"time"
)

type State string

const (
	StateIdle         State = "idle"
	StateInitializing State = "initializing"
	StateRunning      State = "cycle-running"
	StateSleeping     State = "sleeping"
	StateShuttingDown State = "shutting-down"
	StateStopped      State = "stopped"
)

// Cycle records what happened during one fetch and analysis pass.
type Cycle struct {
	ID          int            `json:"id"`
	StartedAt   time.Time      `json:"started_at"`
	Duration    time.Duration  `json:"duration"`
	Fetched     int            `json:"fetched"`
	Analyzed    int            `json:"analyzed"`
	Alerts      int            `json:"alerts"`
	Failed      int            `json:"failed"`
	Sources     map[string]int `json:"sources"`
	FailedFeeds []string       `json:"failed_sources,omitempty"`
	Interrupted bool           `json:"interrupted"`
}

func NewCycle(id int) *Cycle {
	return &Cycle{
		ID:        id,
		StartedAt: time.Now(),
		Sources:   make(map[string]int),
	}
}

func (c *Cycle) GetDuration() time.Duration {
	if c.StartedAt.IsZero() {
		return 0
	}
	return time.Since(c.StartedAt)
}

func (c *Cycle) Finish() {
	c.Duration = c.GetDuration()
}
