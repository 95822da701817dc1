package notify

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans a message out to every notifier and returns all failures.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Send(ctx, title, text))
	}
	return errs
}

// Log writes alerts to the structured log. Always part of New's result so
// alerts are visible even without a webhook.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Send(ctx context.Context, title, text string) error {
	l.Logger.Warn("alert", zap.String("title", title), zap.String("text", text))
	return nil
}

// New builds the notifier chain: the log, plus Slack when a webhook is set.
func New(logger *zap.Logger, slackWebhook string) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := Multi{Log{Logger: logger}}
	if s := NewSlack(slackWebhook); s != nil {
		m = append(m, s)
	}
	return m
}
