package probe

import (
	"context"
	"time"
)

// CheckResult is the outcome of one probe.
//
// StatusCode is 0 when no HTTP response was obtained; Error then explains why.
// A response with any status leaves Error empty.
type CheckResult struct {
	StartedAt  time.Time
	StatusCode int
	Up         bool
	LatencyMS  float64
	Error      string
}

// Checker performs a single check for a given target URL.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}
