// revocation/memory.go
package revocation

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Checker for tests and single-node tooling.
type MemoryStore struct {
	mu       sync.RWMutex
	tokens   map[string]struct{}
	subjects map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens:   make(map[string]struct{}),
		subjects: make(map[string]struct{}),
	}
}

var _ Checker = &MemoryStore{}

func (m *MemoryStore) IsTokenRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, revoked := m.tokens[tokenID]
	return revoked, nil
}

func (m *MemoryStore) IsSubjectRevoked(_ context.Context, subjectID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, revoked := m.subjects[subjectID]
	return revoked, nil
}

func (m *MemoryStore) RevokeToken(tokenID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[tokenID] = struct{}{}
}

func (m *MemoryStore) RevokeSubject(subjectID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects[subjectID] = struct{}{}
}
