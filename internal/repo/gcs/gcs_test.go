package gcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/pulseping/internal/repo"
)

// Runs against fake-gcs-server or the Cloud Storage emulator:
//
//	STORAGE_EMULATOR_HOST=localhost:4443 go test ./internal/repo/gcs
func TestGCSStore_Emulator(t *testing.T) {
	if os.Getenv("STORAGE_EMULATOR_HOST") == "" {
		t.Skip("STORAGE_EMULATOR_HOST not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bucket := fmt.Sprintf("pulseping-test-%d", time.Now().UnixNano())
	s, err := New(ctx, bucket, "test-project")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.EnsureContainer(ctx))
	require.NoError(t, s.EnsureContainer(ctx))

	_, err = s.Read(ctx, "pings-2025-08-18.jsonl")
	assert.True(t, errors.Is(err, repo.ErrNotFound), "got %v", err)

	require.NoError(t, s.Write(ctx, "pings-2025-08-18.jsonl", []byte("a\n")))
	require.NoError(t, s.Write(ctx, "pings-2025-08-18.jsonl", []byte("a\nb\n")))
	got, err := s.Read(ctx, "pings-2025-08-18.jsonl")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(got))
}
