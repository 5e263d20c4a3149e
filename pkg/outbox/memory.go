package outbox

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an outbox kept in process memory. Events are lost on
// restart; use it when no Postgres is configured.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	events []Event
	leases map[int64]time.Time
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{leases: make(map[int64]time.Time), now: time.Now}
}

func (m *MemoryStore) Enqueue(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	event.ID = m.nextID
	event.Status = StatusPending
	if event.CreatedAt.IsZero() {
		event.CreatedAt = m.now().UTC()
	}
	m.events = append(m.events, event)
	return nil
}

func (m *MemoryStore) LockBatch(_ context.Context, relayID string, batchSize int, lease time.Duration) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var batch []Event
	for i := range m.events {
		if len(batch) == batchSize {
			break
		}
		e := &m.events[i]
		expired := e.Status == StatusInProgress && now.After(m.leases[e.ID])
		if e.Status != StatusPending && !expired {
			continue
		}
		e.Status = StatusInProgress
		e.RelayID = relayID
		m.leases[e.ID] = now.Add(lease)
		batch = append(batch, *e)
	}
	return batch, nil
}

func (m *MemoryStore) MarkSent(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		if e := m.find(id); e != nil {
			e.Status = StatusSent
			delete(m.leases, id)
		}
	}
	return nil
}

func (m *MemoryStore) MarkFailed(_ context.Context, id int64, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.find(id)
	if e == nil {
		return nil
	}
	e.RetryCount++
	e.LastError = &errMsg
	e.Status = StatusPending
	if e.RetryCount >= MaxRetries {
		e.Status = StatusFailed
	}
	delete(m.leases, id)
	return nil
}

// Events returns a copy of every stored event.
func (m *MemoryStore) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MemoryStore) find(id int64) *Event {
	for i := range m.events {
		if m.events[i].ID == id {
			return &m.events[i]
		}
	}
	return nil
}
