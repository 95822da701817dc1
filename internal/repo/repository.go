package repo

import (
	"context"
	"errors"
)

// ErrNotFound is returned by BlobStore.Read when a partition does not exist yet.
var ErrNotFound = errors.New("blob not found")

// Ports (interfaces). Every backend under internal/repo implements BlobStore.
//
// BlobStore is whole-object storage addressed by partition id inside one
// container (bucket, directory, key prefix or table scope).
type BlobStore interface {
	// EnsureContainer creates the container if missing. Already existing is not an error.
	EnsureContainer(ctx context.Context) error
	// Read returns the full content, or ErrNotFound.
	Read(ctx context.Context, id string) ([]byte, error)
	// Write overwrites the full content.
	Write(ctx context.Context, id string, data []byte) error
}

// Appender is implemented by backends with a native append primitive
// (O_APPEND files, redis APPEND, SQL concatenation).
type Appender interface {
	Append(ctx context.Context, id string, data []byte) error
}
