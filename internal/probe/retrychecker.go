package probe

import (
	"context"
	"fmt"
	"time"
)

// RetryChecker repeats failed probes. The returned result is the last attempt's,
// so its StartedAt and LatencyMS describe that attempt.
type RetryChecker struct {
	Inner    Checker
	Attempts int
	Backoff  time.Duration
}

func (r *RetryChecker) Check(ctx context.Context, target string) CheckResult {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last CheckResult
	for i := 0; i < attempts; i++ {
		last = r.Inner.Check(ctx, target)
		if last.Up {
			return last
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return annotate(last, i+1)
		case <-time.After(r.Backoff):
		}
	}
	return annotate(last, attempts)
}

func annotate(res CheckResult, attempts int) CheckResult {
	if attempts > 1 && res.Error != "" {
		res.Error = fmt.Sprintf("%s (after %d attempts)", res.Error, attempts)
	}
	return res
}
