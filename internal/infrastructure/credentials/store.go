package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// EphemeralTier is the process-scoped storage tier, shared by all client
// slots. Everything in it is lost when the portal restarts, which is exactly
// the contract of the "remember me off" tier.
type EphemeralTier struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewEphemeralTier creates the in-process tier.
func NewEphemeralTier() *EphemeralTier {
	return &EphemeralTier{data: make(map[string][]byte)}
}

func (t *EphemeralTier) get(key string) ([]byte, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	raw, ok := t.data[key]
	return raw, ok
}

func (t *EphemeralTier) set(key string, raw []byte) {
	t.mu.Lock()
	t.data[key] = raw
	t.mu.Unlock()
}

func (t *EphemeralTier) delete(key string) {
	t.mu.Lock()
	delete(t.data, key)
	t.mu.Unlock()
}

// Store implements domain.CredentialStore for one client slot. The durable
// tier is Redis (survives portal restarts), the ephemeral tier is the shared
// in-process map. Save keeps the one-live-copy invariant: writing to one
// tier always deletes from the other.
type Store struct {
	client *redis.Client
	eph    *EphemeralTier
	slotID string
	prefix string
	ttl    time.Duration
}

// NewStore creates the credential store bound to one client slot.
func NewStore(client *redis.Client, eph *EphemeralTier, slotID string, durableTTL time.Duration) domain.CredentialStore {
	return &Store{
		client: client,
		eph:    eph,
		slotID: slotID,
		prefix: "cred:",
		ttl:    durableTTL,
	}
}

func (s *Store) key() string {
	return s.prefix + s.slotID
}

// Save implements domain.CredentialStore.
func (s *Store) Save(ctx context.Context, token string, user *domain.UserProfile, remember bool) error {
	creds := domain.StoredCredentials{Token: token, User: user, Remember: remember}
	data, err := json.Marshal(&creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if remember {
		if err := s.client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
			return fmt.Errorf("failed to store credentials in redis: %w", err)
		}
		s.eph.delete(s.key())
		return nil
	}

	s.eph.set(s.key(), data)
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("failed to clear durable credential copy: %w", err)
	}
	return nil
}

// Load implements domain.CredentialStore. The durable tier wins; a slot that
// is missing or holds malformed JSON reads as absent, never as an error the
// caller has to distinguish.
func (s *Store) Load(ctx context.Context) (*domain.StoredCredentials, domain.Tier, error) {
	data, err := s.client.Get(ctx, s.key()).Result()
	switch {
	case err == redis.Nil:
		// fall through to the ephemeral tier
	case err != nil:
		return nil, domain.TierNone, fmt.Errorf("failed to read durable credentials: %w", err)
	default:
		if creds := decode([]byte(data)); creds != nil {
			return creds, domain.TierDurable, nil
		}
	}

	raw, ok := s.eph.get(s.key())
	if !ok {
		return nil, domain.TierNone, nil
	}
	creds := decode(raw)
	if creds == nil {
		return nil, domain.TierNone, nil
	}
	return creds, domain.TierEphemeral, nil
}

// Clear implements domain.CredentialStore. Both tiers are wiped regardless
// of which one was active, so a torn-down session leaves no recoverable
// trace.
func (s *Store) Clear(ctx context.Context) error {
	s.eph.delete(s.key())
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("failed to clear durable credentials: %w", err)
	}
	return nil
}

// decode fails open: a credential blob that does not parse, or parses
// without a token, reads as no session.
func decode(raw []byte) *domain.StoredCredentials {
	var creds domain.StoredCredentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil
	}
	if creds.Token == "" {
		return nil
	}
	return &creds
}

var _ domain.CredentialStore = (*Store)(nil)
