package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.eer.dev/rov/config"
	"go.eer.dev/rov/logging"
)

// Store is a set of values of one type, keyed by name and JSON-encoded in a Backend. Values read
// or written once are served from memory afterwards. A Store is safe for concurrent use.
type Store[V any] struct {
	namespace string
	backend   Backend
	logger    logging.Logger

	mu    sync.Mutex
	cache map[string]V
}

// New returns a Store for values of namespace kept in backend. A nil logger means the global one.
func New[V any](namespace string, backend Backend, logger logging.Logger) *Store[V] {
	if logger == nil {
		logger = logging.Global()
	}
	return &Store[V]{
		namespace: namespace,
		backend:   backend,
		logger:    logger,
		cache:     map[string]V{},
	}
}

// Open returns a Store for namespace over the backend described by cfg.
func Open[V any](ctx context.Context, namespace string, cfg config.Store, logger logging.Logger) (*Store[V], error) {
	if logger == nil {
		logger = logging.Global()
	}
	logger = logger.Sublogger("store")
	var backend Backend
	switch cfg.Backend {
	case config.MemoryBackend:
		backend = NewMemoryBackend()
	case config.SQLiteBackend:
		var err error
		if backend, err = NewSQLiteBackend(ctx, cfg.Path); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unknown store backend %q", cfg.Backend)
	}
	logger.Debugw("opened store", "namespace", namespace, "backend", cfg.Backend)
	return New[V](namespace, backend, logger), nil
}

func (s *Store[V]) name(key string) string {
	return fmt.Sprintf("value-%s-%s", s.namespace, key)
}

// Get returns the value under key. A missing or unreadable value is logged and reported as not
// found; only backend failures are returned as errors.
func (s *Store[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache[key]; ok {
		return v, true, nil
	}

	name := s.name(key)
	data, err := s.backend.Load(ctx, name)
	if errors.Is(err, ErrNotFound) {
		s.logger.Warnw("the value does not exist", "name", name)
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}

	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warnw("the value could not be parsed", "name", name, "error", err)
		return zero, false, nil
	}
	s.cache[key] = v
	return v, true, nil
}

// Set saves v under key, replacing any previous value.
func (s *Store[V]) Set(ctx context.Context, key string, v V) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Save(ctx, s.name(key), data); err != nil {
		return err
	}
	s.cache[key] = v
	return nil
}

// Delete removes the value under key. Deleting a missing key returns ErrNotFound.
func (s *Store[V]) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, key)
	return s.backend.Remove(ctx, s.name(key))
}

// Keys returns the keys of every stored value in lexical order.
func (s *Store[V]) Keys(ctx context.Context) ([]string, error) {
	prefix := s.name("")
	names, err := s.backend.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return lo.Map(names, func(name string, _ int) string {
		return strings.TrimPrefix(name, prefix)
	}), nil
}

// Close closes the backend.
func (s *Store[V]) Close() error {
	return s.backend.Close()
}
