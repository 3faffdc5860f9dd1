package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the session in process memory. It backs ephemeral runs
// (no session file configured) and doubles as a fake in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	sess Session
	opts options
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{opts: buildOptions(opts)}
}

func (m *MemoryStore) Get(context.Context) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sess, nil
}

func (m *MemoryStore) Set(_ context.Context, s Session) error {
	m.mu.Lock()
	m.sess = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.sess = Session{}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sess.Token, nil
}

func (m *MemoryStore) IsValid(ctx context.Context) bool {
	token, _ := m.Token(ctx)
	return tokenValid(token, m.opts.now())
}

func (m *MemoryStore) CurrentRole(context.Context) Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sess.Token == "" {
		return RoleUser
	}
	return ParseRole(string(m.sess.Role))
}
