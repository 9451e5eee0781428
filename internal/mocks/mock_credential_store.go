package mocks

import (
	"context"
	"sync"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// MockCredentialStore implements domain.CredentialStore for testing. The
// default behavior is a working single-slot store that records every call;
// individual operations can be overridden through the func fields.
type MockCredentialStore struct {
	SaveFunc  func(ctx context.Context, token string, user *domain.UserProfile, remember bool) error
	LoadFunc  func(ctx context.Context) (*domain.StoredCredentials, domain.Tier, error)
	ClearFunc func(ctx context.Context) error

	mu         sync.Mutex
	creds      *domain.StoredCredentials
	tier       domain.Tier
	SaveCalls  []SaveCall
	ClearCalls int
}

// SaveCall records the arguments of one Save invocation.
type SaveCall struct {
	Token    string
	User     *domain.UserProfile
	Remember bool
}

// NewMockCredentialStore creates a new MockCredentialStore with default behaviors
func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{}
}

// Seed places credentials in the mock's backing state.
func (m *MockCredentialStore) Seed(creds *domain.StoredCredentials, tier domain.Tier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = creds
	m.tier = tier
}

// Save persists credentials to the tier selected by remember
func (m *MockCredentialStore) Save(ctx context.Context, token string, user *domain.UserProfile, remember bool) error {
	m.mu.Lock()
	m.SaveCalls = append(m.SaveCalls, SaveCall{Token: token, User: user, Remember: remember})
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, token, user, remember)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = &domain.StoredCredentials{Token: token, User: user, Remember: remember}
	if remember {
		m.tier = domain.TierDurable
	} else {
		m.tier = domain.TierEphemeral
	}
	return nil
}

// Load reads back whatever was seeded or saved
func (m *MockCredentialStore) Load(ctx context.Context) (*domain.StoredCredentials, domain.Tier, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return nil, domain.TierNone, nil
	}
	return m.creds, m.tier, nil
}

// Clear wipes the mock's backing state
func (m *MockCredentialStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = nil
	m.tier = domain.TierNone
	return nil
}

// Stored returns the mock's current backing state.
func (m *MockCredentialStore) Stored() (*domain.StoredCredentials, domain.Tier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds, m.tier
}

// Compile-time interface compliance verification
var _ domain.CredentialStore = (*MockCredentialStore)(nil)
