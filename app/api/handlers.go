package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/crypto-alerts/app/tasks"
)

const (
	defaultWindowHours = 24
	maxWindowHours     = 24 * 30
	defaultAlertLimit  = 50
	maxAlertLimit      = 500
)

func NewHandler(monitor tasks.MonitorInterface, store AlertReader, sources, sinks []string, version string) *Handler {
	return &Handler{
		monitor: monitor,
		store:   store,
		sources: sources,
		sinks:   sinks,
		version: version,
		started: time.Now(),
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"state":     string(h.monitor.State()),
		"provider":  h.monitor.Provider(),
		"threshold": h.store.Threshold(),
		"sources":   len(h.sources),
	}

	if cycle := h.monitor.LastCycle(); cycle != nil {
		health["last_cycle"] = cycle
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListAlerts(c *gin.Context) {
	hours, ok := intQuery(c, "hours", defaultWindowHours, 1, maxWindowHours)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", defaultAlertLimit, 1, maxAlertLimit)
	if !ok {
		return
	}

	list, err := h.store.List(time.Duration(hours)*time.Hour, limit)
	if err != nil {
		slog.Error("Alert store error", "operation", "list_alerts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": list,
		"total":  len(list),
		"hours":  hours,
	})
}

func (h *Handler) APIGetStats(c *gin.Context) {
	hours, ok := intQuery(c, "hours", defaultWindowHours, 1, maxWindowHours)
	if !ok {
		return
	}

	stats, err := h.store.Stats(time.Duration(hours) * time.Hour)
	if err != nil {
		slog.Error("Alert store error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListSources(c *gin.Context) {
	response := gin.H{
		"sources":  h.sources,
		"total":    len(h.sources),
		"provider": h.monitor.Provider(),
		"sinks":    h.sinks,
	}

	if cycle := h.monitor.LastCycle(); cycle != nil {
		response["last_counts"] = cycle.Sources
		response["last_failed"] = cycle.FailedFeeds
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "Crypto Alerts",
		"version":     h.version,
		"description": "Crypto news monitor with LLM analysis and threshold alerts",
		"endpoints": map[string]string{
			"health":  "/health",
			"alerts":  "/api/alerts?hours=<n>&limit=<n>",
			"stats":   "/api/stats?hours=<n>",
			"sources": "/api/sources",
		},
	})
}

// intQuery reads an optional integer query parameter. On a malformed or out
// of range value it writes a 400 response and reports false.
func intQuery(c *gin.Context, name string, def, lo, hi int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < lo || value > hi {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid " + name + " parameter",
			"details": "must be an integer between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi),
		})
		return 0, false
	}

	return value, true
}
