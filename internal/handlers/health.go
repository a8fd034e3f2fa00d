package handlers

import (
	"ClipSync/internal/middleware"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HealthHandler отвечает на GET /health.
type HealthHandler struct {
	started time.Time
}

func NewHealthHandler(started time.Time) *HealthHandler {
	return &HealthHandler{started: started}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.started)
	requests, errs := middleware.Counters()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": isoNow(),
		"uptime": map[string]any{
			"milliseconds": uptime.Milliseconds(),
			"seconds":      int64(uptime.Seconds()),
			"human":        formatUptime(uptime),
		},
		"requestCount": requests,
		"errorCount":   errs,
	})
}

// formatUptime: "1d 2h 3m 4s", нулевые старшие части опускаются.
func formatUptime(d time.Duration) string {
	secs := int64(d.Seconds())
	days := secs / 86400
	hours := secs % 86400 / 3600
	minutes := secs % 3600 / 60
	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", secs%60))
	return strings.Join(parts, " ")
}
