package collector

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/pulseping/internal/domain"
	"github.com/hamed0406/pulseping/internal/metrics"
	"github.com/hamed0406/pulseping/internal/probe"
)

const defaultTimeout = 10 * time.Second

// Appender persists one record. *pinglog.Store satisfies it.
type Appender interface {
	Append(ctx context.Context, rec domain.ProbeRecord) error
}

// Collector probes every configured URL once per RunOnce and appends one
// record per URL.
type Collector struct {
	Logger      *zap.Logger
	Store       Appender
	Checker     probe.Checker
	URLs        []string
	Concurrency int
	Timeout     time.Duration
	Metrics     *metrics.Metrics
}

func New(logger *zap.Logger, store Appender, checker probe.Checker, urls []string) *Collector {
	return &Collector{
		Logger:      logger,
		Store:       store,
		Checker:     checker,
		URLs:        urls,
		Concurrency: 4,
		Timeout:     defaultTimeout,
	}
}

// RunOnce probes all URLs in parallel. It returns the records in URL order
// and the combined Append errors; a failed Append never stops other URLs.
// Probe failures are records, not errors.
func (c *Collector) RunOnce(ctx context.Context) ([]domain.ProbeRecord, error) {
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("run_id", uuid.NewString()))
	c.Metrics.ObserveRun()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := c.Concurrency
	if limit < 1 {
		limit = 1
	}

	log.Info("collector_run_start", zap.Int("urls", len(c.URLs)))
	start := time.Now()

	records := make([]domain.ProbeRecord, len(c.URLs))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, u := range c.URLs {
		i, u := i, u
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, timeout)
			res := c.Checker.Check(pctx, u)
			cancel()

			records[i] = toRecord(u, res)
			return nil
		})
	}
	_ = g.Wait()

	// Appends run one at a time in URL order. Every record of a pass lands
	// in the same partition, and the default append is a read-modify-write.
	var errs error
	for _, rec := range records {
		c.Metrics.ObserveProbe(rec.URL, rec.StatusCode, rec.IsUp, rec.ResponseMS)

		err := c.Store.Append(ctx, rec)
		c.Metrics.ObserveAppend(err)
		if err != nil {
			log.Warn("pinglog_append_error", zap.String("url", rec.URL), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		log.Debug("collector_probe",
			zap.String("url", rec.URL),
			zap.Int("status", rec.StatusCode),
			zap.Bool("up", rec.IsUp),
			zap.Float64("response_ms", rec.ResponseMS),
			zap.String("error", rec.Error),
		)
	}

	log.Info("collector_run_done",
		zap.Duration("took", time.Since(start)),
		zap.Int("append_errors", len(multierr.Errors(errs))),
	)
	return records, errs
}

func toRecord(url string, res probe.CheckResult) domain.ProbeRecord {
	ts := res.StartedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	rec := domain.ProbeRecord{
		Timestamp:  ts.UTC(),
		URL:        url,
		StatusCode: res.StatusCode,
		IsUp:       res.StatusCode != 0 && domain.IsUpStatus(res.StatusCode),
		ResponseMS: domain.RoundMS(res.LatencyMS),
	}
	if res.StatusCode == 0 {
		rec.Error = res.Error
		if rec.Error == "" {
			rec.Error = "no response"
		}
	}
	return rec
}
