package pinglog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/pulseping/internal/domain"
	"github.com/hamed0406/pulseping/internal/repo"
)

// ErrInvalidWindow is returned by ReadWindow for a non-positive window.
var ErrInvalidWindow = errors.New("window must be positive")

// MaxClockSkew is how far past the reader's now a record may be stamped and
// still be returned by ReadWindow. Collectors and readers run on different
// hosts.
const MaxClockSkew = time.Minute

// Store is the append-only, day-partitioned probe log.
//
// Append is a read-modify-write of the whole partition. Two appenders
// writing the same partition concurrently can lose a record (the last
// overwrite wins). WithPartitionLocks serializes appends per partition
// within one process; WithNativeAppend hands the line to a backend that
// can append in place.
type Store struct {
	blobs        repo.BlobStore
	log          *zap.Logger
	now          func() time.Time
	locks        *partitionLocks
	nativeAppend bool
}

type Option func(*Store)

// WithClock overrides the wall clock used by ReadWindow.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPartitionLocks serializes appends to the same partition.
func WithPartitionLocks() Option {
	return func(s *Store) { s.locks = newPartitionLocks() }
}

// WithNativeAppend uses repo.Appender when the backend implements it.
func WithNativeAppend() Option {
	return func(s *Store) { s.nativeAppend = true }
}

func New(blobs repo.BlobStore, log *zap.Logger, opts ...Option) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		blobs: blobs,
		log:   log,
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Append persists rec in the partition of rec.Timestamp's UTC day.
func (s *Store) Append(ctx context.Context, rec domain.ProbeRecord) error {
	line, err := EncodeLine(rec)
	if err != nil {
		return err
	}
	id := PartitionID(rec.Timestamp)

	if err := s.blobs.EnsureContainer(ctx); err != nil {
		return fmt.Errorf("ensure container: %w", err)
	}

	if s.locks != nil {
		unlock := s.locks.lock(id)
		defer unlock()
	}

	if a, ok := s.blobs.(repo.Appender); ok && s.nativeAppend {
		if err := a.Append(ctx, id, line); err != nil {
			return fmt.Errorf("append partition %s: %w", id, err)
		}
		return nil
	}

	existing, err := s.blobs.Read(ctx, id)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("read partition %s: %w", id, err)
	}

	content := make([]byte, 0, len(existing)+len(line)+1)
	content = append(content, existing...)
	if n := len(content); n > 0 && content[n-1] != '\n' {
		content = append(content, '\n')
	}
	content = append(content, line...)

	if err := s.blobs.Write(ctx, id, content); err != nil {
		return fmt.Errorf("write partition %s: %w", id, err)
	}
	return nil
}

// ReadWindow returns every record with now-window <= timestamp <= now+MaxClockSkew,
// oldest first. Records stamped further in the future are left out.
// It reads today's and yesterday's partitions and every older one the window
// reaches back to. Missing partitions and malformed lines contribute nothing.
func (s *Store) ReadWindow(ctx context.Context, window time.Duration) ([]domain.ProbeRecord, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	now := s.now().UTC()
	cutoff := now.Add(-window)

	upper := now.Add(MaxClockSkew)

	from := cutoff
	if yesterday := now.AddDate(0, 0, -1); yesterday.Before(from) {
		from = yesterday
	}

	out := make([]domain.ProbeRecord, 0)
	for _, id := range PartitionRange(from, now) {
		content, err := s.blobs.Read(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read partition %s: %w", id, err)
		}

		recs, skipped := DecodePartition(content)
		if skipped > 0 {
			s.log.Debug("pinglog_skipped_lines",
				zap.String("partition", id),
				zap.Int("skipped", skipped),
			)
		}
		for _, r := range recs {
			if r.Timestamp.Before(cutoff) || r.Timestamp.After(upper) {
				continue
			}
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Ping verifies the backing container is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.blobs.EnsureContainer(ctx)
}
