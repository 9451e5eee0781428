package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// FlowConfig carries the registration flow policy knobs.
type FlowConfig struct {
	Cooldown          time.Duration
	CodeLength        int
	MinPasswordLength int
}

// RegistrationFlow is the state machine of one OTP registration attempt:
// COLLECTING -> SENDING_OTP -> AWAITING_OTP -> VERIFYING -> COMPLETED or
// FAILED, with resend re-entering SENDING_OTP once the cooldown elapses.
// One challenge is outstanding at a time; a resend supersedes the prior
// challenge. Nothing here is persisted; a portal restart abandons the
// attempt.
type RegistrationFlow struct {
	slotID   string
	identity domain.IdentityAPI
	audit    domain.AuditLogger
	config   FlowConfig
	now      func() time.Time

	mu        sync.Mutex
	state     domain.RegistrationState
	draft     *domain.RegistrationDraft
	challenge *domain.OTPChallenge
	// challengeGen identifies the outstanding challenge; a verify result is
	// honored only if the challenge it was submitted against is still the
	// outstanding one.
	challengeGen uint64
}

// NewRegistrationFlow creates a fresh attempt in COLLECTING.
func NewRegistrationFlow(slotID string, identity domain.IdentityAPI, audit domain.AuditLogger, config FlowConfig) *RegistrationFlow {
	return &RegistrationFlow{
		slotID:   slotID,
		identity: identity,
		audit:    audit,
		config:   config,
		now:      time.Now,
		state:    domain.RegStateCollecting,
	}
}

// State returns the current phase of the attempt.
func (f *RegistrationFlow) State() domain.RegistrationState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// CooldownRemaining returns the seconds left before a resend is allowed, or
// zero when no challenge is outstanding.
func (f *RegistrationFlow) CooldownRemaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.challenge == nil {
		return 0
	}
	return f.challenge.CooldownRemaining(f.now())
}

// Begin validates the draft locally and, when it passes, issues the
// dual-channel challenge. On issuance failure the attempt returns to
// COLLECTING with the error surfaced.
func (f *RegistrationFlow) Begin(ctx context.Context, draft *domain.RegistrationDraft) error {
	if err := f.validateDraft(draft); err != nil {
		return err
	}

	f.mu.Lock()
	if f.state != domain.RegStateCollecting {
		f.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrRegistrationState, f.state)
	}
	f.state = domain.RegStateSendingOTP
	f.draft = draft
	f.mu.Unlock()

	err := f.identity.SendOTP(ctx, draft.PhoneNumber, draft.CountryCode, draft.Email)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = domain.RegStateCollecting
		return err
	}
	f.installChallenge()
	f.audit.LogEvent(domain.NewSessionEvent(domain.RegistrationStartedEvent, f.slotID))
	return nil
}

// Resend issues a fresh challenge once the cooldown has elapsed. A resend
// requested while the cooldown is still running is rejected locally, with
// zero network calls and the state unchanged.
func (f *RegistrationFlow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.state != domain.RegStateAwaitingOTP {
		state := f.state
		f.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrRegistrationState, state)
	}
	if remaining := f.challenge.CooldownRemaining(f.now()); remaining > 0 {
		f.mu.Unlock()
		return fmt.Errorf("%w: %d seconds remaining", domain.ErrOTPResendTooSoon, remaining)
	}
	f.state = domain.RegStateResending
	draft := f.draft
	f.mu.Unlock()

	err := f.identity.SendOTP(ctx, draft.PhoneNumber, draft.CountryCode, draft.Email)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = domain.RegStateCollecting
		return err
	}
	f.installChallenge()
	f.audit.LogEvent(domain.NewSessionEvent(domain.RegistrationResendEvent, f.slotID))
	return nil
}

// installChallenge supersedes any outstanding challenge. Callers hold f.mu.
func (f *RegistrationFlow) installChallenge() {
	f.challengeGen++
	f.challenge = &domain.OTPChallenge{
		IssuedAt:        f.now(),
		CooldownSeconds: int(f.config.Cooldown / time.Second),
		CodeLength:      f.config.CodeLength,
	}
	f.state = domain.RegStateAwaitingOTP
}

// VerifyAndComplete submits the shared code against both channels and, only
// on verify success, finalizes the account through signup-with-otp. Both
// remote calls must succeed to reach COMPLETED. A verify failure returns
// the attempt to AWAITING_OTP; a finalization failure is terminal for the
// attempt and is never silently retried.
func (f *RegistrationFlow) VerifyAndComplete(ctx context.Context, rawCode string) (*domain.AuthResult, error) {
	code := SanitizeOTPCode(rawCode, f.config.CodeLength)

	f.mu.Lock()
	if f.state != domain.RegStateAwaitingOTP {
		state := f.state
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrRegistrationState, state)
	}
	if len(code) < f.config.CodeLength {
		// Rejected locally; no network call for an incomplete code.
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: code must be %d digits", domain.ErrValidation, f.config.CodeLength)
	}
	f.state = domain.RegStateVerifying
	gen := f.challengeGen
	draft := f.draft
	f.mu.Unlock()

	err := f.identity.VerifyOTP(ctx, draft.PhoneNumber, draft.CountryCode, draft.Email, code)

	f.mu.Lock()
	if f.challengeGen != gen {
		// The challenge was superseded while the verify was in flight.
		f.state = domain.RegStateAwaitingOTP
		f.mu.Unlock()
		return nil, domain.ErrOTPExpiredOrInvalid
	}
	if err != nil {
		f.state = domain.RegStateAwaitingOTP
		f.mu.Unlock()
		return nil, err
	}
	f.mu.Unlock()

	result, err := f.identity.SignupWithOTP(ctx, draft, code)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = domain.RegStateFailed
		f.audit.LogEvent(domain.NewSessionEvent(domain.RegistrationFailedEvent, f.slotID).WithError(err))
		return nil, err
	}
	f.state = domain.RegStateCompleted
	f.audit.LogEvent(domain.NewSessionEvent(domain.RegistrationCompletedEvent, f.slotID).WithUser(result.User))
	return result, nil
}

func (f *RegistrationFlow) validateDraft(draft *domain.RegistrationDraft) error {
	type field struct {
		name  string
		value string
	}
	required := []field{
		{"name", draft.Name},
		{"email", draft.Email},
		{"phone_number", draft.PhoneNumber},
		{"country_code", draft.CountryCode},
		{"password", draft.Password},
	}
	for _, fld := range required {
		if strings.TrimSpace(fld.value) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, fld.name)
		}
	}
	if !strings.Contains(draft.Email, "@") {
		return fmt.Errorf("%w: email is malformed", domain.ErrValidation)
	}
	if len(draft.Password) < f.config.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, f.config.MinPasswordLength)
	}
	return nil
}

// SanitizeOTPCode keeps only digits and truncates to the code length. Codes
// are never padded.
func SanitizeOTPCode(raw string, length int) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == length {
			break
		}
	}
	return b.String()
}
