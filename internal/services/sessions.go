package services

import (
	"context"
	"fmt"
	"sync"

	"chefcart-service/internal/ports"
)

// SessionManager hands out one CartRegistry per session id.
//
// Registries synchronize their own state; the manager only guards the session
// map and the shared minimum-order settings.
type SessionManager struct {
	store ports.CartStore

	mu         sync.Mutex
	registries map[string]*CartRegistry
	minOrders  map[string]int64
}

func NewSessionManager(store ports.CartStore) *SessionManager {
	return &SessionManager{
		store:      store,
		registries: make(map[string]*CartRegistry),
		minOrders:  make(map[string]int64),
	}
}

// Registry returns the live registry for a session, restoring it from the
// store on first access.
func (m *SessionManager) Registry(ctx context.Context, sessionID string) (*CartRegistry, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session registry: session id must be non-empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.registries[sessionID]; ok {
		return r, nil
	}

	r, err := LoadCartRegistry(ctx, m.store, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session registry: %w", err)
	}
	if len(m.minOrders) > 0 {
		r.SetMinOrderSettings(ctx, m.minOrders)
	}

	m.registries[sessionID] = r
	return r, nil
}

// SetMinOrderSettings updates the settings applied to current and future
// registries, e.g. after a refresh from the settings repository.
func (m *SessionManager) SetMinOrderSettings(ctx context.Context, settings map[string]int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.minOrders = make(map[string]int64, len(settings))
	for categoryID, min := range settings {
		m.minOrders[categoryID] = min
	}
	for _, r := range m.registries {
		r.SetMinOrderSettings(ctx, m.minOrders)
	}
}

// EndSession drops a session's registry and its stored snapshot (logout).
func (m *SessionManager) EndSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.registries, sessionID)
	m.mu.Unlock()

	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("end session %q: %w", sessionID, err)
	}
	return nil
}
