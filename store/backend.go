// Package store keeps named values, such as calibration results, in a persistent backend behind
// an in-memory cache.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by a Backend when no entry has the requested name.
var ErrNotFound = errors.New("entry not found")

// A Backend persists serialized entries by name.
type Backend interface {
	// Load returns the data saved under name, or ErrNotFound.
	Load(ctx context.Context, name string) ([]byte, error)
	// Save creates or replaces the entry under name.
	Save(ctx context.Context, name string, data []byte) error
	// Remove deletes the entry under name, or returns ErrNotFound.
	Remove(ctx context.Context, name string) error
	// List returns the names starting with prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

type memoryBackend struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemoryBackend returns a Backend that keeps entries for the life of the process.
func NewMemoryBackend() Backend {
	return &memoryBackend{entries: map[string][]byte{}}
}

func (mb *memoryBackend) Load(ctx context.Context, name string) ([]byte, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	data, ok := mb.entries[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return append([]byte(nil), data...), nil
}

func (mb *memoryBackend) Save(ctx context.Context, name string, data []byte) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.entries[name] = append([]byte(nil), data...)
	return nil
}

func (mb *memoryBackend) Remove(ctx context.Context, name string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if _, ok := mb.entries[name]; !ok {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	delete(mb.entries, name)
	return nil
}

func (mb *memoryBackend) List(ctx context.Context, prefix string) ([]string, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	var names []string
	for name := range mb.entries {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (mb *memoryBackend) Close() error {
	return nil
}
