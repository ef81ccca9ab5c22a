package storage

import (
	"context"
	"io"
	"strings"

	"github.com/marqueehq/marquee/pkg/config"
	"github.com/pkg/errors"
)

// ErrInvalidKey is returned for keys that are empty, absolute, or escape the
// storage root.
var ErrInvalidKey = errors.New("invalid storage key")

// Backend stores uploaded files under slash-separated keys such as
// "movies/12-<uuid>.png".
type Backend interface {
	// Save writes the content under key. A reader on the same key never sees
	// a partial file.
	Save(ctx context.Context, key string, r io.Reader) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL the key is served from.
	URL(key string) string
}

// New returns the backend selected by cfg.StorageBackend.
func New(cfg *config.Config) (Backend, error) {
	switch cfg.StorageBackend {
	case "local", "":
		backend, err := NewLocalBackend(cfg.StorageLocalPath, cfg.StorageLocalURL)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return backend, nil
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}
