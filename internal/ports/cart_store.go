package ports

import (
	"context"

	"chefcart-service/internal/domain"
)

// Port: persistence boundary for per-session cart registry snapshots.
//
// Writes are idempotent (saving the same snapshot twice is harmless) and a
// Load after Save must round-trip the snapshot exactly.
type CartStore interface {
	// Load returns the stored snapshot for a session, or nil when none exists.
	Load(ctx context.Context, sessionID string) (*domain.RegistrySnapshot, error)
	// Save replaces the stored snapshot for a session.
	Save(ctx context.Context, sessionID string, snap *domain.RegistrySnapshot) error
	// Delete removes a session's snapshot entirely.
	Delete(ctx context.Context, sessionID string) error
}
