package cartstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"chefcart-service/internal/domain"
)

// In-memory implementation of the CartStore port for tests and local runs.
// Snapshots are copied through JSON so stored state never aliases live
// registry data.
type MemoryStore struct {
	mu    sync.Mutex
	snaps map[string][]byte

	// SaveErr, when set, is returned by Save to exercise failure paths.
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*domain.RegistrySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.snaps[sessionID]
	if !ok {
		return nil, nil
	}

	var snap domain.RegistrySnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("memory cart store: decode session %q: %w", sessionID, err)
	}
	return &snap, nil
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, snap *domain.RegistrySnapshot) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("memory cart store: encode session %q: %w", sessionID, err)
	}

	s.mu.Lock()
	s.snaps[sessionID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.snaps, sessionID)
	s.mu.Unlock()
	return nil
}

// Saves reports how many snapshots are currently stored.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snaps)
}
