package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidCredentials,
		ErrAuthExpired,
		ErrNotAuthenticated,
		ErrValidation,
		ErrOTPExpiredOrInvalid,
		ErrOTPResendTooSoon,
		ErrRegistrationState,
		ErrConflict,
		ErrNetwork,
		ErrSlotTokenInvalid,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v unexpectedly matches %v", a, b)
			}
		}
	}
}

func TestSentinelErrors_SurviveWrapping(t *testing.T) {
	tests := []struct {
		name     string
		wrapped  error
		sentinel error
	}{
		{
			name:     "network error with transport detail",
			wrapped:  fmt.Errorf("%w: dial tcp: connection refused", ErrNetwork),
			sentinel: ErrNetwork,
		},
		{
			name:     "validation error with field detail",
			wrapped:  fmt.Errorf("%w: password must be at least 6 characters", ErrValidation),
			sentinel: ErrValidation,
		},
		{
			name:     "double wrapped auth expiry",
			wrapped:  fmt.Errorf("fetching members: %w", fmt.Errorf("%w", ErrAuthExpired)),
			sentinel: ErrAuthExpired,
		},
		{
			name:     "conflict from signup finalization",
			wrapped:  fmt.Errorf("signup-with-otp: %w", ErrConflict),
			sentinel: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.wrapped, tt.sentinel)
			}
		})
	}
}
