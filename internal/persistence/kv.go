// Package persistence loads and saves whole collections as JSON text values
// in a key-value store. It carries no business rules.
package persistence

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

const (
	CatalogKey = "shopzing_products"
	OrdersKey  = "shopzing_orders"
)

var ErrKeyNotFound = errors.New("key not found")

// KV is a durable text store. Get returns ErrKeyNotFound for absent keys.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}

// MemoryKV is a process-local KV used by tests and ephemeral runs.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (m *MemoryKV) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
