// Package localstore provides the key/value stores backing the client-side
// timeline cache: a diskv-backed store for devices and an in-memory store.
package localstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/siron93/moms-app/internal/domain"
)

// KV is a string-keyed blob store. Get returns an error wrapping
// domain.ErrNotFound for missing keys; Delete of a missing key is a no-op.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// Memory is an in-memory KV, safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get returns the value stored under key, or an error wrapping
// domain.ErrNotFound when there is none.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("key %s: %w", key, domain.ErrNotFound)
	}
	return slices.Clone(val), nil
}

// Set stores val under key, replacing any previous value.
func (m *Memory) Set(ctx context.Context, key string, val []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return domain.NewValidationError("key", "required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = slices.Clone(val)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// ListKeys returns the keys starting with prefix, sorted.
func (m *Memory) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}
