package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/spf13/afero"

	"github.com/hamed0406/pulseping/internal/repo"
)

const filePerm = 0o644

// Store keeps each partition as a file under <root>/<container>/.
// Each write goes to its own temp file and is renamed into place, so readers
// and concurrent writers never see a half-written partition.
type Store struct {
	fs        afero.Fs
	container string
}

var (
	_ repo.BlobStore = (*Store)(nil)
	_ repo.Appender  = (*Store)(nil)
)

// New opens a store rooted at dir on the local disk.
func New(dir, container string) *Store {
	return NewWithFs(afero.NewBasePathFs(afero.NewOsFs(), dir), container)
}

// NewWithFs uses any afero filesystem (afero.NewMemMapFs in tests).
func NewWithFs(fsys afero.Fs, container string) *Store {
	return &Store{fs: fsys, container: container}
}

func (s *Store) path(id string) string {
	return path.Join("/", s.container, path.Base(id))
}

func (s *Store) EnsureContainer(ctx context.Context) error {
	if err := s.fs.MkdirAll(path.Join("/", s.container), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", s.container, err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	b, err := afero.ReadFile(s.fs, s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", id, err)
	}
	return b, nil
}

func (s *Store) Write(ctx context.Context, id string, data []byte) error {
	final := s.path(id)
	tmp, err := afero.TempFile(s.fs, path.Dir(final), path.Base(final)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", id, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := s.fs.Chmod(tmpName, filePerm); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, final); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", final, err)
	}
	return nil
}

// Append writes data at the end of the partition file with O_APPEND.
func (s *Store) Append(ctx context.Context, id string, data []byte) error {
	f, err := s.fs.OpenFile(s.path(id), os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("open %s: %w", id, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", id, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %s: %w", id, err)
	}
	return f.Close()
}
