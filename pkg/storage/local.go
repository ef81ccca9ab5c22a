package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LocalBackend keeps files on the local filesystem below root.
type LocalBackend struct {
	root    string
	baseURL string
}

func NewLocalBackend(root, baseURL string) (*LocalBackend, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, errors.WithStack(err)
	}
	return &LocalBackend{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root is the directory files are written to.
func (b *LocalBackend) Root() string {
	return b.root
}

// Save writes to a temp file in the destination directory, syncs it, and
// renames it into place.
func (b *LocalBackend) Save(ctx context.Context, key string, r io.Reader) error {
	key, err := cleanKey(key)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	dst := b.path(key)
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WithStack(err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return errors.WithStack(err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return errors.WithStack(err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return errors.WithStack(err)
	}
	if err := tmp.Sync(); err != nil {
		return errors.WithStack(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return errors.WithStack(err)
	}
	committed = true

	return nil
}

func (b *LocalBackend) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return errors.WithStack(err)
	}
	err = os.Remove(b.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.WithStack(err)
	}
	return nil
}

func (b *LocalBackend) URL(key string) string {
	return b.baseURL + "/" + strings.TrimLeft(key, "/")
}

func (b *LocalBackend) path(key string) string {
	return filepath.Join(b.root, filepath.FromSlash(key))
}
