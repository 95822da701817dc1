package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/pulseping/internal/domain"
	"github.com/hamed0406/pulseping/internal/repo"
)

type AlerterConfig struct {
	AlertOnRecovery bool
	Cooldown        time.Duration
}

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Alerter notifies when a URL changes between up and down.
type Alerter struct {
	log      *zap.Logger
	alertDB  repo.AlertStore
	notifier Notifier
	cfg      AlerterConfig
	now      func() time.Time
}

func NewAlerter(log *zap.Logger, alertDB repo.AlertStore, notifier Notifier, cfg AlerterConfig) *Alerter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Alerter{
		log:      log,
		alertDB:  alertDB,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Observe compares each record with the last known state of its URL.
func (a *Alerter) Observe(ctx context.Context, recs []domain.ProbeRecord) error {
	var errs error
	for _, r := range recs {
		errs = multierr.Append(errs, a.observeOne(ctx, r))
	}
	return errs
}

func (a *Alerter) observeOne(ctx context.Context, r domain.ProbeRecord) error {
	rec, err := a.alertDB.Get(ctx, r.URL)
	if err != nil {
		return fmt.Errorf("alert state %s: %w", r.URL, err)
	}
	now := a.now()

	// A URL seen for the first time counts as a change only when it is down.
	stateChanged := (rec == nil && !r.IsUp) || (rec != nil && rec.LastState != r.IsUp)
	if rec == nil && r.IsUp {
		return a.alertDB.Set(ctx, r.URL, true, time.Time{})
	}
	if !stateChanged {
		return nil
	}

	// Cooldown only matters for DOWN alerts (suppresses flapping).
	cooled := true
	if rec != nil && rec.LastSentAt != nil {
		cooled = now.Sub(*rec.LastSentAt) >= a.cfg.Cooldown
	}
	downAlert := !r.IsUp && cooled
	recoveryAlert := r.IsUp && a.cfg.AlertOnRecovery

	if !downAlert && !recoveryAlert {
		// Record the new state but keep the cooldown anchor.
		var lastSent time.Time
		if rec != nil && rec.LastSentAt != nil {
			lastSent = *rec.LastSentAt
		}
		return a.alertDB.Set(ctx, r.URL, r.IsUp, lastSent)
	}

	title, text := message(r)
	if err := a.notifier.Send(ctx, title, text); err != nil {
		// State is left as is so the next pass retries.
		a.log.Warn("alert_send_error", zap.String("url", r.URL), zap.Error(err))
		return nil
	}
	a.log.Info("alert_sent", zap.String("url", r.URL), zap.Bool("up", r.IsUp))
	return a.alertDB.Set(ctx, r.URL, r.IsUp, now)
}

func message(r domain.ProbeRecord) (title, text string) {
	title = "🔴 Target DOWN"
	if r.IsUp {
		title = "🟢 Target RECOVERED"
	}
	httpTxt := "n/a"
	if r.StatusCode != 0 {
		httpTxt = fmt.Sprintf("%d", r.StatusCode)
	}
	reason := r.Error
	if reason == "" {
		reason = "-"
	}
	text = fmt.Sprintf(
		"URL: %s\nHTTP: %s\nLatency: %.0f ms\nReason: %s\nChecked: %s",
		r.URL, httpTxt, r.ResponseMS, reason, r.Timestamp.Format(time.RFC3339),
	)
	return title, text
}
