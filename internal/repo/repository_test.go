package repo_test

import (
	"testing"

	"github.com/hamed0406/pulseping/internal/repo"
	"github.com/hamed0406/pulseping/internal/repo/fs"
	"github.com/hamed0406/pulseping/internal/repo/gcs"
	"github.com/hamed0406/pulseping/internal/repo/memory"
	pg "github.com/hamed0406/pulseping/internal/repo/postgres"
	redisrepo "github.com/hamed0406/pulseping/internal/repo/redis"
	s3repo "github.com/hamed0406/pulseping/internal/repo/s3"
)

// Compile-time interface satisfaction checks.
// Using external test package avoids import cycle.
func TestInterfaceSatisfaction(t *testing.T) {
	var _ repo.BlobStore = memory.New()
	var _ repo.AlertStore = memory.New()

	var _ repo.BlobStore = (*fs.Store)(nil)
	var _ repo.Appender = (*fs.Store)(nil)
	var _ repo.BlobStore = (*s3repo.Store)(nil)
	var _ repo.BlobStore = (*gcs.Store)(nil)

	// Redis and Postgres also hold alert state and append natively.
	var _ repo.BlobStore = (*redisrepo.Store)(nil)
	var _ repo.Appender = (*redisrepo.Store)(nil)
	var _ repo.AlertStore = (*redisrepo.Store)(nil)
	var _ repo.BlobStore = (*pg.Store)(nil)
	var _ repo.Appender = (*pg.Store)(nil)
	var _ repo.AlertStore = (*pg.Store)(nil)
}
