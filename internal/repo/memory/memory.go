package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/pulseping/internal/repo"
)

// Store keeps partitions and alert state in process memory.
// Handy for local dev and tests; nothing survives a restart.
type Store struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	alerts map[string]repo.AlertRecord
}

func New() *Store {
	return &Store{
		blobs:  make(map[string][]byte),
		alerts: make(map[string]repo.AlertRecord),
	}
}

var (
	_ repo.BlobStore  = (*Store)(nil)
	_ repo.AlertStore = (*Store)(nil)
)

// ---- BlobStore ----

func (m *Store) EnsureContainer(ctx context.Context) error { return nil }

func (m *Store) Read(ctx context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *Store) Write(ctx context.Context, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := make([]byte, len(data))
	copy(b, data)
	m.blobs[id] = b
	return nil
}

// IDs returns the stored partition ids (unordered).
func (m *Store) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.blobs))
	for id := range m.blobs {
		out = append(out, id)
	}
	return out
}

// ---- AlertStore ----

func (m *Store) Get(ctx context.Context, url string) (*repo.AlertRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.alerts[url]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Store) Set(ctx context.Context, url string, lastState bool, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ts *time.Time
	if !sentAt.IsZero() {
		ts = &sentAt
	}
	m.alerts[url] = repo.AlertRecord{URL: url, LastState: lastState, LastSentAt: ts}
	return nil
}
