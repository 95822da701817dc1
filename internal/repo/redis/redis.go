package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hamed0406/pulseping/internal/repo"
)

var (
	_ repo.BlobStore  = (*Store)(nil)
	_ repo.Appender   = (*Store)(nil)
	_ repo.AlertStore = (*Store)(nil)
)

// Store keeps each partition as a string value under "<container>:<id>".
// APPEND is atomic on the server, so native append never loses lines.
type Store struct {
	client    redis.Cmdable
	container string
}

// New connects using a redis:// URL.
func New(ctx context.Context, url, container string) (*Store, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return NewWithClient(client, container), client, nil
}

func NewWithClient(client redis.Cmdable, container string) *Store {
	return &Store{client: client, container: container}
}

func (s *Store) key(id string) string {
	return s.container + ":" + id
}

func (s *Store) alertKey(url string) string {
	return s.container + ":alerts:" + url
}

// EnsureContainer only checks connectivity; keys need no container.
func (s *Store) EnsureContainer(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return b, nil
}

func (s *Store) Write(ctx context.Context, id string, data []byte) error {
	if err := s.client.Set(ctx, s.key(id), data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", id, err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, id string, data []byte) error {
	if err := s.client.Append(ctx, s.key(id), string(data)).Err(); err != nil {
		return fmt.Errorf("append %s: %w", id, err)
	}
	return nil
}

// ---- AlertStore ----

func (s *Store) Get(ctx context.Context, url string) (*repo.AlertRecord, error) {
	m, err := s.client.HGetAll(ctx, s.alertKey(url)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", url, err)
	}
	if len(m) == 0 {
		return nil, nil
	}
	r := &repo.AlertRecord{URL: url, LastState: m["last_state"] == "1"}
	if v := m["last_sent_at"]; v != "" {
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("parse last_sent_at for %s: %w", url, err)
		}
		r.LastSentAt = &ts
	}
	return r, nil
}

func (s *Store) Set(ctx context.Context, url string, lastState bool, sentAt time.Time) error {
	state := "0"
	if lastState {
		state = "1"
	}
	sent := ""
	if !sentAt.IsZero() {
		sent = sentAt.UTC().Format(time.RFC3339Nano)
	}
	if err := s.client.HSet(ctx, s.alertKey(url), "last_state", state, "last_sent_at", sent).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", url, err)
	}
	return nil
}
