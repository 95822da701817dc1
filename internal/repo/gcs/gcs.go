package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/hamed0406/pulseping/internal/repo"
)

const contentType = "application/x-ndjson"

// Store maps the container to a GCS bucket. Credentials come from the
// environment (ADC); STORAGE_EMULATOR_HOST points the client at an emulator.
type Store struct {
	client    *storage.Client
	bucket    string
	projectID string
}

var _ repo.BlobStore = (*Store)(nil)

func New(ctx context.Context, bucket, projectID string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}
	return &Store{client: client, bucket: bucket, projectID: projectID}, nil
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) EnsureContainer(ctx context.Context) error {
	b := s.client.Bucket(s.bucket)
	_, err := b.Attrs(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("bucket attrs %s: %w", s.bucket, err)
	}
	if err := b.Create(ctx, s.projectID, nil); err != nil {
		// Lost a creation race: fine as long as the bucket is there now.
		if _, aerr := b.Attrs(ctx); aerr == nil {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	rc, err := s.client.Bucket(s.bucket).Object(id).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", id, err)
	}
	return b, nil
}

func (s *Store) Write(ctx context.Context, id string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(id).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", id, err)
	}
	// The object only exists once Close returns nil.
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", id, err)
	}
	return nil
}
