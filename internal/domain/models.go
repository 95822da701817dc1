package domain

import (
	"math"
	"time"
)

// ProbeRecord is one observation of one monitored URL.
// StatusCode 0 means no HTTP response was obtained; Error is only set then.
type ProbeRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	IsUp       bool      `json:"is_up"`
	ResponseMS float64   `json:"response_ms"`
	Error      string    `json:"error,omitempty"`
}

// WindowView is the query response body for a time window of records.
type WindowView struct {
	GeneratedAt time.Time     `json:"generated_at"`
	PeriodHours int           `json:"period_hours"`
	TotalChecks int           `json:"total_checks"`
	Checks      []ProbeRecord `json:"checks"`
}

// IsUpStatus reports whether an HTTP status counts as up: [200,400).
func IsUpStatus(code int) bool {
	return code >= 200 && code < 400
}

// RoundMS rounds a latency to one decimal place.
func RoundMS(ms float64) float64 {
	if ms < 0 {
		return 0
	}
	return math.Round(ms*10) / 10
}
