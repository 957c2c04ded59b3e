package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chefcart-service/internal/domain"
	"chefcart-service/internal/platform/obs"
)

// Redis-backed implementation of the CartStore port.
//
// Each session's registry snapshot is one JSON document under
// "cart:<sessionID>". Writes are idempotent and snapshots round-trip exactly.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. A zero ttl keeps snapshots until
// the session is explicitly ended.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return "cart:" + sessionID
}

// Load returns the stored snapshot for a session, or nil when none exists.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (_ *domain.RegistrySnapshot, err error) {
	defer obs.Time(ctx, "cartstore.Load")(&err)

	if sessionID == "" {
		return nil, errors.New("load cart snapshot: session id must be non-empty")
	}

	raw, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart snapshot: session %q: %w", sessionID, err)
	}

	var snap domain.RegistrySnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("load cart snapshot: decode session %q: %w", sessionID, err)
	}

	return &snap, nil
}

// Save replaces the stored snapshot for a session.
func (s *RedisStore) Save(ctx context.Context, sessionID string, snap *domain.RegistrySnapshot) (err error) {
	defer obs.Time(ctx, "cartstore.Save")(&err)

	if sessionID == "" {
		return errors.New("save cart snapshot: session id must be non-empty")
	}
	if snap == nil {
		return errors.New("save cart snapshot: snapshot must be non-nil")
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("save cart snapshot: encode session %q: %w", sessionID, err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart snapshot: session %q: %w", sessionID, err)
	}

	return nil
}

// Delete removes a session's snapshot.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("delete cart snapshot: session id must be non-empty")
	}
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete cart snapshot: session %q: %w", sessionID, err)
	}
	return nil
}
