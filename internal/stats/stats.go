// Package stats summarizes a window of probe records per URL.
package stats

import (
	"math"

	"github.com/DataDog/sketches-go/ddsketch"

	"github.com/hamed0406/pulseping/internal/domain"
)

const relativeAccuracy = 0.01

// URLSummary is the per-URL view shown on the dashboard.
type URLSummary struct {
	URL           string  `json:"url"`
	Total         int     `json:"total"`
	Up            int     `json:"up"`
	UptimePercent float64 `json:"uptime_percent"`
	AvgLatencyMS  float64 `json:"avg_latency_ms"`
	P50MS         float64 `json:"p50_ms"`
	P95MS         float64 `json:"p95_ms"`
	P99MS         float64 `json:"p99_ms"`
}

type accumulator struct {
	total, up int
	sum       float64
	sketch    *ddsketch.DDSketch
}

// Summarize groups recs by URL in order of first appearance. Uptime is
// rounded to one decimal, the average latency to whole milliseconds.
// Percentiles are lower-rank values within 1% relative accuracy, so small
// samples report the high percentiles at an observed value below the max.
func Summarize(recs []domain.ProbeRecord) ([]URLSummary, error) {
	order := make([]string, 0)
	acc := make(map[string]*accumulator)

	for _, r := range recs {
		a := acc[r.URL]
		if a == nil {
			sk, err := ddsketch.NewDefaultDDSketch(relativeAccuracy)
			if err != nil {
				return nil, err
			}
			a = &accumulator{sketch: sk}
			acc[r.URL] = a
			order = append(order, r.URL)
		}
		a.total++
		if r.IsUp {
			a.up++
		}
		ms := math.Max(r.ResponseMS, 0)
		a.sum += ms
		if err := a.sketch.Add(ms); err != nil {
			return nil, err
		}
	}

	out := make([]URLSummary, 0, len(order))
	for _, url := range order {
		a := acc[url]
		s := URLSummary{
			URL:           url,
			Total:         a.total,
			Up:            a.up,
			UptimePercent: math.Round(float64(a.up)/float64(a.total)*1000) / 10,
			AvgLatencyMS:  math.Round(a.sum / float64(a.total)),
		}
		s.P50MS = quantile(a.sketch, 0.50)
		s.P95MS = quantile(a.sketch, 0.95)
		s.P99MS = quantile(a.sketch, 0.99)
		out = append(out, s)
	}
	return out, nil
}

func quantile(sk *ddsketch.DDSketch, q float64) float64 {
	v, err := sk.GetValueAtQuantile(q)
	if err != nil {
		return 0
	}
	return math.Round(v*10) / 10
}

// OverallUptime is the mean of the per-URL uptime percentages, or 0 with
// no URLs.
func OverallUptime(sums []URLSummary) float64 {
	if len(sums) == 0 {
		return 0
	}
	var total float64
	for _, s := range sums {
		total += s.UptimePercent
	}
	return math.Round(total/float64(len(sums))*10) / 10
}
