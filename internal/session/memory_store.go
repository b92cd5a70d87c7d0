package session

import (
	"context"
	"sync"
	"time"

	appErrors "github.com/edcenter/console-api/pkg/errors"
)

// MemoryStore is an in-process TokenStore for development and tests, where a
// Redis instance would be overkill.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// NewMemoryStore constructs an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Save stores the upstream token under the session id.
func (s *MemoryStore) Save(_ context.Context, sessionID, upstreamToken string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = memoryEntry{token: upstreamToken, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Get returns the upstream token, or ErrCacheMiss for unknown or expired
// sessions.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return "", appErrors.ErrCacheMiss
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, sessionID)
		return "", appErrors.ErrCacheMiss
	}
	return entry.token, nil
}

// Delete removes the session mapping.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
