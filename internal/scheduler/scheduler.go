package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/pulseping/internal/domain"
)

// Runner is one collection pass. *collector.Collector satisfies it.
type Runner interface {
	RunOnce(ctx context.Context) ([]domain.ProbeRecord, error)
}

// Observer receives the records of each pass (the alerter).
type Observer interface {
	Observe(ctx context.Context, recs []domain.ProbeRecord) error
}

type Scheduler struct {
	Logger    *zap.Logger
	Runner    Runner
	Interval  time.Duration
	Observers []Observer
}

func New(logger *zap.Logger, runner Runner, interval time.Duration, observers ...Observer) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval < 0 {
		interval = 0
	}
	return &Scheduler{
		Logger:    logger,
		Runner:    runner,
		Interval:  interval,
		Observers: observers,
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled. A zero Interval disables the loop.
func (s *Scheduler) Run(ctx context.Context) {
	if s.Interval == 0 {
		s.Logger.Info("scheduler_disabled")
		return
	}
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("scheduler_stopped")
			return
		case <-t.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one pass and hands the records to every observer.
// Append errors are logged; the records still reach observers.
func (s *Scheduler) RunOnce(ctx context.Context) {
	recs, err := s.Runner.RunOnce(ctx)
	if err != nil {
		s.Logger.Warn("scheduler_run_error", zap.Error(err))
	}
	for _, o := range s.Observers {
		if err := o.Observe(ctx, recs); err != nil {
			s.Logger.Warn("scheduler_observer_error", zap.Error(err))
		}
	}
}
