package domain

import "time"

// Role identifies which dashboard family a user belongs to.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleMember       Role = "member"
	RoleTrainer      Role = "trainer"
	RoleReceptionist Role = "receptionist"
)

// UserProfile is the remote identity service's view of a user. The portal
// treats it as opaque beyond ID, Role and MemberID, which drive access
// decisions and display.
type UserProfile struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	CountryCode     string `json:"country_code"`
	Role            Role   `json:"role"`
	MemberID        string `json:"member_id"`
	ProfilePhotoURL string `json:"profile_photo_url"`
	Gender          string `json:"gender"`
	DateOfBirth     string `json:"date_of_birth"`
}

// ProfilePatch carries the fields a user may change on their own profile.
// Nil fields are left untouched by the merge.
type ProfilePatch struct {
	Name            *string `json:"name,omitempty"`
	ProfilePhotoURL *string `json:"profile_photo_url,omitempty"`
	Gender          *string `json:"gender,omitempty"`
	DateOfBirth     *string `json:"date_of_birth,omitempty"`
}

// Apply merges the patch into a copy of the profile.
func (p *ProfilePatch) Apply(user UserProfile) UserProfile {
	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.ProfilePhotoURL != nil {
		user.ProfilePhotoURL = *p.ProfilePhotoURL
	}
	if p.Gender != nil {
		user.Gender = *p.Gender
	}
	if p.DateOfBirth != nil {
		user.DateOfBirth = *p.DateOfBirth
	}
	return user
}

// StoredCredentials is what a credential tier persists for one client slot.
type StoredCredentials struct {
	Token    string       `json:"token"`
	User     *UserProfile `json:"user"`
	Remember bool         `json:"remember"`
}

// Tier reports which storage tier held a set of credentials.
type Tier int

const (
	TierNone Tier = iota
	TierDurable
	TierEphemeral
)

func (t Tier) String() string {
	switch t {
	case TierDurable:
		return "durable"
	case TierEphemeral:
		return "ephemeral"
	default:
		return "none"
	}
}

// SessionSnapshot is a point-in-time copy of one client slot's session
// state. Loading is true until the first rehydration attempt resolves;
// consumers must treat it as "decision deferred", never "unauthenticated".
type SessionSnapshot struct {
	Token    string
	User     *UserProfile
	Remember bool
	Loading  bool
}

// Authenticated reports whether the snapshot carries an established session.
func (s SessionSnapshot) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// AuthResult is the remote service's answer to login and signup calls.
type AuthResult struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// RegistrationDraft holds the details collected before OTP issuance. Drafts
// live only for the duration of one registration attempt and are never
// persisted; a portal restart abandons them.
type RegistrationDraft struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	CountryCode string `json:"country_code"`
	Password    string `json:"password"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
}

// OTPChallenge describes the one outstanding dual-channel challenge of a
// registration attempt. Issuing a new challenge supersedes the prior one.
type OTPChallenge struct {
	IssuedAt        time.Time
	CooldownSeconds int
	CodeLength      int
}

// CooldownRemaining returns how many whole seconds of the resend cooldown
// are left at the given instant, never negative.
func (c *OTPChallenge) CooldownRemaining(now time.Time) int {
	deadline := c.IssuedAt.Add(time.Duration(c.CooldownSeconds) * time.Second)
	if !now.Before(deadline) {
		return 0
	}
	remaining := deadline.Sub(now)
	secs := int(remaining / time.Second)
	if remaining%time.Second > 0 {
		secs++
	}
	return secs
}

// RegistrationState is the phase of one OTP registration attempt.
type RegistrationState string

const (
	RegStateCollecting  RegistrationState = "COLLECTING"
	RegStateSendingOTP  RegistrationState = "SENDING_OTP"
	RegStateAwaitingOTP RegistrationState = "AWAITING_OTP"
	RegStateResending   RegistrationState = "RESENDING"
	RegStateVerifying   RegistrationState = "VERIFYING"
	RegStateCompleted   RegistrationState = "COMPLETED"
	RegStateFailed      RegistrationState = "FAILED"
)

// Terminal reports whether the attempt can make no further transitions.
func (s RegistrationState) Terminal() bool {
	return s == RegStateCompleted || s == RegStateFailed
}

// MemberSummary is one row of the member list views. Presentation only; the
// remote service owns all membership business rules.
type MemberSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	MemberID   string `json:"member_id"`
	PlanName   string `json:"plan_name"`
	PlanExpiry string `json:"plan_expiry"`
	Active     bool   `json:"active"`
}

// AttendanceSummary is the aggregate shown on trainer and admin dashboards.
type AttendanceSummary struct {
	Date         string `json:"date"`
	PresentToday int    `json:"present_today"`
	TotalMembers int    `json:"total_members"`
}

// Broadcast is an outgoing announcement to a member audience.
type Broadcast struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Audience string `json:"audience"`
}
