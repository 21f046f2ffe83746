// Package modelstore loads the model artifact once at startup and holds the
// parsed ensemble as read-only process state. There is no reload: a store
// that comes up empty stays empty until the process restarts with a valid
// artifact.
package modelstore

import (
	"context"
	"fmt"
	"os"

	"github.com/finml/creditserve/internal/domain/model"
)

// Store exposes the loaded ensemble to the rest of the service.
type Store interface {
	// Load reads and parses the artifact at the configured path. It is called
	// once during startup; the caller decides whether a failure is fatal.
	Load(ctx context.Context) error

	// Get returns the ensemble and whether one is loaded. Safe for concurrent
	// use after Load has returned.
	Get() (*model.Ensemble, bool)

	// Path reports the configured artifact path.
	Path() string
}

// FileStore implements Store over a single on-disk JSON artifact.
type FileStore struct {
	path     string
	ensemble *model.Ensemble
}

// New creates a FileStore with the given options applied.
func New(opts ...Option) *FileStore {
	s := &FileStore{
		path: defaultPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the artifact. A missing file and a malformed artifact are both
// reported as errors wrapping ErrLoadFailed; the store remains empty.
func (s *FileStore) Load(_ context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	ensemble, err := model.Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoadFailed, s.path, err)
	}
	s.ensemble = ensemble
	return nil
}

// Get returns the loaded ensemble, if any.
func (s *FileStore) Get() (*model.Ensemble, bool) {
	return s.ensemble, s.ensemble != nil
}

// Path reports the configured artifact path.
func (s *FileStore) Path() string {
	return s.path
}
