package repo

import (
	"context"
	"time"
)

// AlertRecord holds the last-known up/down state of a monitored URL and the
// last time a notification was sent for it (used for cooldown).
type AlertRecord struct {
	URL        string
	LastState  bool
	LastSentAt *time.Time
}

// AlertStore persists alert state per URL.
type AlertStore interface {
	// Get returns nil, nil if there's no record yet.
	Get(ctx context.Context, url string) (*AlertRecord, error)
	// Set upserts the record. A zero sentAt keeps LastSentAt nil.
	Set(ctx context.Context, url string, lastState bool, sentAt time.Time) error
}
