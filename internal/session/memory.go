package session

import (
	"context"
	"sync"
	"time"

	"wrong-calculator/internal/core"
)

var _ Store = (*MemoryStore)(nil)

type entry struct {
	state   core.State
	expires time.Time
}

// MemoryStore is an in-process Store. Sessions idle for longer than the
// TTL are dropped on the next access.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*entry
}

// NewMemoryStore returns an empty store. A ttl <= 0 keeps sessions forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

func (m *MemoryStore) Create(_ context.Context) (string, core.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := newID()
	st := core.NewState()
	m.sessions[id] = &entry{state: st, expires: m.deadline()}
	return id, st, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (core.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(id)
	if !ok {
		return core.State{}, ErrNotFound
	}
	return e.state, nil
}

// Update applies fn under the store lock, which serialises every session.
func (m *MemoryStore) Update(_ context.Context, id string, fn UpdateFunc) (core.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(id)
	if !ok {
		return core.State{}, ErrNotFound
	}
	e.state = fn(e.state)
	e.expires = m.deadline()
	return e.state, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookup(id); !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Len(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evict()
	return len(m.sessions), nil
}

func (m *MemoryStore) lookup(id string) (*entry, bool) {
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if m.expired(e) {
		delete(m.sessions, id)
		return nil, false
	}
	return e, true
}

func (m *MemoryStore) evict() {
	for id, e := range m.sessions {
		if m.expired(e) {
			delete(m.sessions, id)
		}
	}
}

func (m *MemoryStore) expired(e *entry) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}

func (m *MemoryStore) deadline() time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(m.ttl)
}
