// Package backend opens the blob store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/pulseping/internal/config"
	"github.com/hamed0406/pulseping/internal/repo"
	"github.com/hamed0406/pulseping/internal/repo/fs"
	"github.com/hamed0406/pulseping/internal/repo/gcs"
	"github.com/hamed0406/pulseping/internal/repo/memory"
	"github.com/hamed0406/pulseping/internal/repo/postgres"
	redisrepo "github.com/hamed0406/pulseping/internal/repo/redis"
	s3repo "github.com/hamed0406/pulseping/internal/repo/s3"
)

const defaultDataDir = "data"

// Stores is what the binaries need from storage. Alerts falls back to an
// in-process store for backends without a natural place for it.
type Stores struct {
	Blobs  repo.BlobStore
	Alerts repo.AlertStore
	Close  func()
}

func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*Stores, error) {
	if log == nil {
		log = zap.NewNop()
	}
	noop := func() {}

	switch cfg.StorageBackend {
	case config.BackendMemory:
		m := memory.New()
		return &Stores{Blobs: m, Alerts: m, Close: noop}, nil

	case config.BackendFile:
		dir := cfg.StorageConnection
		if dir == "" {
			dir = defaultDataDir
		}
		return &Stores{Blobs: fs.New(dir, cfg.ContainerName), Alerts: memory.New(), Close: noop}, nil

	case config.BackendS3:
		s, err := s3repo.New(ctx, cfg.ContainerName, s3repo.Options{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("open s3: %w", err)
		}
		return &Stores{Blobs: s, Alerts: memory.New(), Close: noop}, nil

	case config.BackendGCS:
		s, err := gcs.New(ctx, cfg.ContainerName, cfg.GCSProjectID)
		if err != nil {
			return nil, fmt.Errorf("open gcs: %w", err)
		}
		return &Stores{Blobs: s, Alerts: memory.New(), Close: func() {
			if err := s.Close(); err != nil {
				log.Warn("gcs_close_error", zap.Error(err))
			}
		}}, nil

	case config.BackendRedis:
		s, client, err := redisrepo.New(ctx, cfg.StorageConnection, cfg.ContainerName)
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		return &Stores{Blobs: s, Alerts: s, Close: func() {
			if err := client.Close(); err != nil {
				log.Warn("redis_close_error", zap.Error(err))
			}
		}}, nil

	case config.BackendPostgres:
		s, err := postgres.New(ctx, cfg.StorageConnection, cfg.ContainerName, log)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		// Alert state shares the schema, which EnsureContainer creates.
		if err := s.EnsureContainer(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return &Stores{Blobs: s, Alerts: s, Close: s.Close}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
