package handlers

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/services"
	"github.com/hack2025/volunteer-hub/pkg/logger"
	"gorm.io/gorm"
)

var startTime = time.Now()

type MetricsHandler struct {
	db               *gorm.DB
	dashboardService *services.DashboardService
}

func NewMetricsHandler(db *gorm.DB, dashboard *services.DashboardService) *MetricsHandler {
	return &MetricsHandler{db: db, dashboardService: dashboard}
}

// Metrics returns Prometheus-compatible text format metrics.
func (h *MetricsHandler) Metrics(c *gin.Context) {
	var b strings.Builder

	// -- Runtime metrics --
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeGauge(&b, "volunteerhub_uptime_seconds", "Time since server start in seconds", time.Since(startTime).Seconds())
	writeGauge(&b, "volunteerhub_goroutines", "Number of active goroutines", float64(runtime.NumGoroutine()))
	writeGauge(&b, "volunteerhub_memory_alloc_bytes", "Current heap allocation in bytes", float64(m.Alloc))
	writeGauge(&b, "volunteerhub_gc_runs_total", "Total number of GC runs", float64(m.NumGC))

	// -- Database metrics --
	if sqlDB, err := h.db.DB(); err == nil {
		stats := sqlDB.Stats()
		writeGauge(&b, "volunteerhub_db_open_connections", "Number of open DB connections", float64(stats.OpenConnections))
		writeGauge(&b, "volunteerhub_db_in_use_connections", "Number of in-use DB connections", float64(stats.InUse))
		writeGauge(&b, "volunteerhub_db_idle_connections", "Number of idle DB connections", float64(stats.Idle))
	}

	// -- Domain metrics --
	resp, err := h.dashboardService.GetStats(c.Request.Context(), &services.DashboardStatsRequest{TopLimit: 1})
	if err != nil {
		logger.Warn().Err(err).Msg("metrics: failed to load domain counts")
	} else {
		writeGauge(&b, "volunteerhub_events_total", "Total number of events", float64(resp.Stats.TotalEvents))
		writeGauge(&b, "volunteerhub_events_upcoming", "Events that have not started yet", float64(resp.Stats.UpcomingEvents))
		writeGauge(&b, "volunteerhub_users_total", "Users who joined or chatted at least once", float64(resp.Stats.TotalUsers))
		writeGauge(&b, "volunteerhub_memberships_total", "Total number of event memberships", float64(resp.Stats.TotalMemberships))
		writeGauge(&b, "volunteerhub_chat_messages_total", "Total number of chat messages", float64(resp.Stats.TotalChats))
	}

	c.Data(200, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s gauge\n", name)
	fmt.Fprintf(b, "%s %g\n\n", name, value)
}
