package probe

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hamed0406/pulseping/internal/domain"
)

// maxDrain bounds how much of a response body is read before closing, so the
// connection can be reused without downloading large pages.
const maxDrain = 64 << 10

const userAgent = "pulseping/1.0"

type HTTPChecker struct {
	Client *http.Client
}

// NewHTTPChecker returns a checker that does not follow redirects: a 3xx is
// itself a response and counts as up.
func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (h *HTTPChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()
	res := CheckResult{StartedAt: start.UTC()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.Client.Do(req)
	if err != nil {
		res.LatencyMS = sinceMS(start)
		res.Error = err.Error()
		return res
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	resp.Body.Close()

	res.LatencyMS = sinceMS(start)
	res.StatusCode = resp.StatusCode
	res.Up = domain.IsUpStatus(resp.StatusCode)
	return res
}

func sinceMS(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
