package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/checkout"
)

// InMemoryStore implements checkout.SessionRepository using an in-memory map.
// Sessions are stored as encoded envelopes, matching the Redis store's
// serialization semantics so callers never observe shared mutable state.
// Suitable for single-instance deployments and testing.
type InMemoryStore struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]inmemEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type inmemEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewInMemoryStore creates an in-memory session store. It starts a background
// goroutine to clean up expired sessions.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	store := &InMemoryStore{
		entries:  make(map[uuid.UUID]inmemEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// FindByID loads a session copy
func (s *InMemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*checkout.CheckoutSession, error) {
	s.mu.RLock()
	e, exists := s.entries[id]
	s.mu.RUnlock()

	if !exists || time.Now().After(e.expiresAt) {
		return nil, checkout.ErrSessionNotFound
	}

	var rec record
	if err := json.Unmarshal(e.data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if rec.Session == nil {
		return nil, checkout.ErrSessionNotFound
	}

	restoreToken(rec.Session, rec.AuthToken)
	return rec.Session, nil
}

// Save persists the session and refreshes its TTL
func (s *InMemoryStore) Save(ctx context.Context, session *checkout.CheckoutSession) error {
	data, err := json.Marshal(record{Session: session, AuthToken: session.AuthToken})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	s.mu.Lock()
	s.entries[session.ID] = inmemEntry{data: data, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

// Delete removes a session
func (s *InMemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

// Ensure InMemoryStore implements SessionRepository
var _ checkout.SessionRepository = (*InMemoryStore)(nil)
