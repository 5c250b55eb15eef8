package session

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL bounds how long a prompt waits for its answer.
const DefaultTTL = 15 * time.Minute

// Store holds at most one Pending per chat. Entries expire after the store's TTL.
type Store interface {
	Get(ctx context.Context, chatID int64) (Pending, bool, error)
	Put(ctx context.Context, chatID int64, p Pending) error
	Clear(ctx context.Context, chatID int64) error
}

type entry struct {
	tag     string
	expires time.Time
}

// MemoryStore is a process-local Store. Sessions are lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[int64]entry
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store; ttl <= 0 selects DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, sessions: make(map[int64]entry)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, chatID int64) (Pending, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[chatID]
	if !ok {
		return Pending{}, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.sessions, chatID)
		return Pending{}, false, nil
	}
	p, err := Decode(e.tag)
	if err != nil {
		delete(m.sessions, chatID)
		return Pending{}, false, err
	}
	p.ExpiresAt = e.expires
	return p, true, nil
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, chatID int64, p Pending) error {
	tag, err := Encode(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, e := range m.sessions {
		if !now.Before(e.expires) {
			delete(m.sessions, id)
		}
	}
	m.sessions[chatID] = entry{tag: tag, expires: now.Add(m.ttl)}
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}

// Len reports live and not yet swept entries.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
