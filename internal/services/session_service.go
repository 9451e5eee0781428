package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// SessionService is the single authority for one client slot's session:
// login, OTP-verified signup, logout, profile update and startup
// rehydration. It owns the in-memory state and delegates persistence to the
// slot's CredentialStore; nothing else touches the storage tiers.
type SessionService struct {
	slotID   string
	store    domain.CredentialStore
	identity domain.IdentityAPI
	api      domain.SessionAPI
	audit    domain.AuditLogger

	rehydrateOnce sync.Once

	mu       sync.Mutex
	token    string
	user     *domain.UserProfile
	remember bool
	loading  bool
	// generation is bumped by every teardown and establishment; an in-flight
	// rehydration result is applied only while its captured generation still
	// matches, so a session torn down mid-flight stays torn down.
	generation uint64
}

// NewSessionService creates the session authority for one client slot. The
// apiFactory binds the session-bearing remote client to this instance's
// token and invalidation path.
func NewSessionService(slotID string, store domain.CredentialStore, identity domain.IdentityAPI, apiFactory domain.SessionAPIFactory, audit domain.AuditLogger) *SessionService {
	s := &SessionService{
		slotID:   slotID,
		store:    store,
		identity: identity,
		audit:    audit,
		loading:  true,
	}
	s.api = apiFactory(s.currentToken, s.handleAuthExpired)
	return s
}

// API returns the session-bearing remote client bound to this slot.
func (s *SessionService) API() domain.SessionAPI { return s.api }

func (s *SessionService) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Snapshot returns a point-in-time copy of the session state.
func (s *SessionService) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := domain.SessionSnapshot{
		Token:    s.token,
		Remember: s.remember,
		Loading:  s.loading,
	}
	if s.user != nil {
		user := *s.user
		snap.User = &user
	}
	return snap
}

// Rehydrate reconstructs the session from the credential store. Only the
// first call does work; later calls return once that first attempt has
// resolved. The stored profile is never trusted: the token is revalidated
// against the remote profile endpoint so server-side role changes take
// effect immediately.
func (s *SessionService) Rehydrate(ctx context.Context) {
	s.rehydrateOnce.Do(func() { s.rehydrate(ctx) })
}

func (s *SessionService) rehydrate(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	creds, _, err := s.store.Load(ctx)
	if err != nil {
		_ = s.store.Clear(ctx)
		return
	}
	if creds == nil {
		return
	}

	s.mu.Lock()
	gen := s.generation
	// Transient: token without user is legal only while loading.
	s.token = creds.Token
	s.remember = creds.Remember
	s.mu.Unlock()

	user, err := s.api.Me(ctx)

	s.mu.Lock()
	if s.generation != gen {
		// Torn down or replaced while the fetch was in flight; the late
		// result is discarded rather than resurrecting a dead session.
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.token = ""
		s.user = nil
		s.remember = false
		s.mu.Unlock()
		_ = s.store.Clear(ctx)
		s.audit.LogEvent(domain.NewSessionEvent(domain.SessionRehydratedEvent, s.slotID).WithError(err))
		return
	}
	s.user = user
	s.mu.Unlock()
	s.audit.LogEvent(domain.NewSessionEvent(domain.SessionRehydratedEvent, s.slotID).WithUser(user))
}

// Login implements the password login operation. Remote rejections surface
// as domain.ErrInvalidCredentials, unmodified.
func (s *SessionService) Login(ctx context.Context, identifier, password string, remember bool) (*domain.UserProfile, error) {
	result, err := s.identity.Login(ctx, identifier, password)
	if err != nil {
		s.audit.LogEvent(domain.NewSessionEvent(domain.SessionLoginFailureEvent, s.slotID).WithError(err))
		return nil, err
	}
	if err := s.establish(ctx, result, remember); err != nil {
		return nil, err
	}
	s.audit.LogEvent(domain.NewSessionEvent(domain.SessionLoginEvent, s.slotID).WithUser(result.User))
	return result.User, nil
}

// SignupDirect is the legacy signup path without OTP verification.
func (s *SessionService) SignupDirect(ctx context.Context, draft *domain.RegistrationDraft) (*domain.UserProfile, error) {
	result, err := s.identity.Signup(ctx, draft)
	if err != nil {
		return nil, err
	}
	if err := s.establish(ctx, result, true); err != nil {
		return nil, err
	}
	s.audit.LogEvent(domain.NewSessionEvent(domain.SessionSignupEvent, s.slotID).WithUser(result.User))
	return result.User, nil
}

// SignupWithOTP drives the registration flow's verification step and, only
// when it completes, establishes the resulting session. Registration always
// persists durably; the remember choice exists only on the login form.
func (s *SessionService) SignupWithOTP(ctx context.Context, flow *RegistrationFlow, code string) (*domain.UserProfile, error) {
	result, err := flow.VerifyAndComplete(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.establish(ctx, result, true); err != nil {
		return nil, err
	}
	s.audit.LogEvent(domain.NewSessionEvent(domain.SessionSignupEvent, s.slotID).WithUser(result.User))
	return result.User, nil
}

func (s *SessionService) establish(ctx context.Context, result *domain.AuthResult, remember bool) error {
	if err := s.store.Save(ctx, result.Token, result.User, remember); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.mu.Lock()
	s.generation++
	s.token = result.Token
	s.user = result.User
	s.remember = remember
	s.mu.Unlock()
	return nil
}

// Logout tears the session down synchronously. Safe to call when already
// logged out.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	user := s.user
	s.token = ""
	s.user = nil
	s.remember = false
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.audit.LogEvent(domain.NewSessionEvent(domain.SessionLogoutEvent, s.slotID).WithUser(user))
	return nil
}

// UpdateProfile merges the patch into the in-memory profile and re-persists
// it to whichever tier currently holds the token. The tier is probed by
// presence, not taken from the remember flag, which may be stale.
func (s *SessionService) UpdateProfile(ctx context.Context, patch *domain.ProfilePatch) (*domain.UserProfile, error) {
	s.mu.Lock()
	if s.token == "" || s.user == nil {
		s.mu.Unlock()
		return nil, domain.ErrNotAuthenticated
	}
	token := s.token
	merged := patch.Apply(*s.user)
	s.mu.Unlock()

	_, tier, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if tier != domain.TierNone {
		if err := s.store.Save(ctx, token, &merged, tier == domain.TierDurable); err != nil {
			return nil, fmt.Errorf("failed to re-persist profile: %w", err)
		}
	}

	s.mu.Lock()
	if s.token == token {
		s.user = &merged
	}
	s.mu.Unlock()
	return &merged, nil
}

// handleAuthExpired is the invalidation hook the bound remote client fires
// on an authentication-rejected response. The first rejection tears the
// session down; later ones find nothing to invalidate, so a burst of
// concurrent rejections produces exactly one teardown.
func (s *SessionService) handleAuthExpired() {
	s.mu.Lock()
	if s.token == "" && s.user == nil {
		s.mu.Unlock()
		return
	}
	s.generation++
	user := s.user
	s.token = ""
	s.user = nil
	s.remember = false
	s.mu.Unlock()

	_ = s.store.Clear(context.Background())
	s.audit.LogEvent(domain.NewSessionEvent(domain.SessionInvalidatedEvent, s.slotID).WithUser(user))
}
