package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/pulseping/internal/repo"
)

var (
	_ repo.BlobStore  = (*Store)(nil)
	_ repo.Appender   = (*Store)(nil)
	_ repo.AlertStore = (*Store)(nil)
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS partitions (
  container  TEXT        NOT NULL,
  id         TEXT        NOT NULL,
  content    BYTEA       NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (container, id)
);

CREATE TABLE IF NOT EXISTS alerts (
  url          TEXT PRIMARY KEY,
  last_state   BOOLEAN     NOT NULL,
  last_sent_at TIMESTAMPTZ NULL
);
`

// Store keeps one row per partition. Append concatenates in a single
// upsert, so concurrent appenders never lose lines.
type Store struct {
	pool      *pgxpool.Pool
	log       *zap.Logger
	container string
}

func New(ctx context.Context, dsn, container string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log, container: container}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureContainer creates the tables on first use. Containers are a key
// column, so there is nothing else to create.
func (s *Store) EnsureContainer(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	var content []byte
	err := s.pool.QueryRow(ctx,
		`SELECT content FROM partitions WHERE container = $1 AND id = $2`,
		s.container, id,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("select partition: %w", err)
	}
	return content, nil
}

func (s *Store) Write(ctx context.Context, id string, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO partitions (container, id, content, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (container, id)
		 DO UPDATE SET content = EXCLUDED.content, updated_at = now()`,
		s.container, id, data,
	)
	if err != nil {
		return fmt.Errorf("upsert partition: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, id string, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO partitions (container, id, content, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (container, id)
		 DO UPDATE SET content = partitions.content || EXCLUDED.content, updated_at = now()`,
		s.container, id, data,
	)
	if err != nil {
		return fmt.Errorf("append partition: %w", err)
	}
	return nil
}
