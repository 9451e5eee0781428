package domain

import "context"

// CredentialStore persists the session token and profile of one client slot
// across the two storage tiers. The remember flag selects the tier on Save;
// at most one tier holds a live copy at any time.
type CredentialStore interface {
	// Save writes the credentials to the tier selected by remember and
	// removes any copy from the other tier.
	Save(ctx context.Context, token string, user *UserProfile, remember bool) error
	// Load checks the durable tier first, then the ephemeral tier. A missing
	// slot and malformed stored JSON both read as (nil, TierNone, nil).
	Load(ctx context.Context) (*StoredCredentials, Tier, error)
	// Clear removes the credentials from both tiers unconditionally.
	Clear(ctx context.Context) error
}

// IdentityAPI covers the remote identity operations that carry no session.
// These calls are deliberately exempt from auth-failure interception: there
// is no session to invalidate yet.
type IdentityAPI interface {
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	Signup(ctx context.Context, draft *RegistrationDraft) (*AuthResult, error)
	SendOTP(ctx context.Context, phoneNumber, countryCode, email string) error
	VerifyOTP(ctx context.Context, phoneNumber, countryCode, email, code string) error
	SignupWithOTP(ctx context.Context, draft *RegistrationDraft, code string) (*AuthResult, error)
}

// SessionAPI covers the bearer-authenticated remote operations. A SessionAPI
// is bound to one client slot's token source; every call that the remote
// rejects as unauthenticated triggers the bound invalidation hook and
// returns ErrAuthExpired.
type SessionAPI interface {
	Me(ctx context.Context) (*UserProfile, error)
	ListMembers(ctx context.Context) ([]MemberSummary, error)
	AttendanceSummary(ctx context.Context) (*AttendanceSummary, error)
	SendBroadcast(ctx context.Context, b *Broadcast) error
}

// TokenSource yields the current bearer token of a client slot, or "" when
// the slot holds no session.
type TokenSource func() string

// SessionAPIFactory binds a SessionAPI to a token source and an
// auth-failure hook. The hook runs at most once per rejected response.
type SessionAPIFactory func(tokens TokenSource, onAuthExpired func()) SessionAPI

// PolicyEnforcer is the subset of the Casbin enforcer the access gate needs.
type PolicyEnforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
	AddPolicy(params ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
}

// SlotTokenService signs and validates the portal cookie that binds a
// browser to its credential slot.
type SlotTokenService interface {
	Issue(slotID string) (string, error)
	Validate(signed string) (string, error)
}
